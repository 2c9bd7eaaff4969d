package nutri

import "context"

// Recipe is a recommendation returned by the recipe service.
type Recipe struct {
	ID       int
	Title    string
	Image    string
	Calories float64
}

// RecipeQuery is a nutrient range search. All bounds are inclusive.
type RecipeQuery struct {
	MinCalories float64
	MaxCalories float64
	MinProtein  float64
	MaxProtein  float64
	MinCarbs    float64
	MaxCarbs    float64
	MinFat      float64
	MaxFat      float64
	Number      int
}

// RecipeFinder searches recipes by nutrient ranges.
type RecipeFinder interface {
	FindByNutrients(ctx context.Context, q RecipeQuery) ([]Recipe, error)
}

// Calorie ranges per recipe, chosen by the sign of the deficit.
const (
	surplusMinCalories = 400
	surplusMaxCalories = 800
	reduceMinCalories  = 100
	reduceMaxCalories  = 400
)

// BuildRecipeQuery derives a recipe search from a balance and its macro targets.
// A positive deficit asks for higher-calorie recipes; otherwise lighter ones.
func BuildRecipeQuery(b Balance, t MacroTargets, number int) RecipeQuery {
	q := RecipeQuery{
		MinCalories: reduceMinCalories,
		MaxCalories: reduceMaxCalories,
		MinProtein:  floorZero(t.Protein - 10),
		MaxProtein:  t.Protein + 10,
		MinCarbs:    floorZero(t.Carbs - 20),
		MaxCarbs:    t.Carbs + 20,
		MinFat:      floorZero(t.Fats - 10),
		MaxFat:      t.Fats + 10,
		Number:      number,
	}
	if b.Deficit > 0 {
		q.MinCalories = surplusMinCalories
		q.MaxCalories = surplusMaxCalories
	}
	return q
}

func floorZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
