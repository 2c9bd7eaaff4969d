package nutri

import "math"

// MacroTargets are suggested macro-nutrient amounts in grams.
type MacroTargets struct {
	Protein float64
	Carbs   float64
	Fats    float64
}

// MacroTargetsFor maps a calorie deficit to macro targets. Only the
// magnitude of the deficit matters.
func MacroTargetsFor(deficit float64) MacroTargets {
	magnitude := math.Abs(deficit)

	t := MacroTargets{Protein: 30, Carbs: 50, Fats: 20}
	if magnitude > 400 {
		t.Protein = 50
	}
	if magnitude > 600 {
		t.Carbs = 100
	}
	return t
}
