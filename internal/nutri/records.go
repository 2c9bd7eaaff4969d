package nutri

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// User is the cached identity of an account holder.
type User struct {
	ID    string
	Email string
}

// UserRecord is a stored account, including its password hash.
type UserRecord struct {
	User
	PasswordHash string
	CreatedAt    time.Time
}

// Meal is a recorded meal with its macro-nutrients (grams) and calories (kcal).
type Meal struct {
	ID        string
	UserID    string
	Name      string
	Calories  float64
	Proteins  float64
	Carbs     float64
	Fats      float64
	CreatedAt time.Time
}

// MealPhoto references an object in the object store by its raw key.
// URLs are never stored; they are produced by signed-URL resolution.
type MealPhoto struct {
	ID          string
	MealID      string
	PhotoKey    string
	ContentType string
	CreatedAt   time.Time
}

// TrainingType is one of the supported workout kinds.
type TrainingType string

const (
	TrainingCourse      TrainingType = "Course"
	TrainingVelo        TrainingType = "Vélo"
	TrainingMusculation TrainingType = "Musculation"
	TrainingNatation    TrainingType = "Natation"
	TrainingMarche      TrainingType = "Marche"
)

// TrainingTypes lists every valid TrainingType in display order.
var TrainingTypes = []TrainingType{
	TrainingCourse,
	TrainingVelo,
	TrainingMusculation,
	TrainingNatation,
	TrainingMarche,
}

// ParseTrainingType matches s against the known training types, ignoring case.
func ParseTrainingType(s string) (TrainingType, error) {
	for _, t := range TrainingTypes {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown training type %q", s)
}

// Training is a recorded workout. Duration is in minutes.
type Training struct {
	ID             string
	UserID         string
	Type           TrainingType
	Date           time.Time
	Duration       float64
	CaloriesBurned float64
	CreatedAt      time.Time
}

// MealInput holds the user-supplied fields of a new meal.
type MealInput struct {
	Name     string
	Calories float64
	Proteins float64
	Carbs    float64
	Fats     float64
}

// Validate checks that the meal has a name and non-negative numbers.
func (in MealInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("meal name is required")
	}
	fields := []struct {
		name  string
		value float64
	}{
		{"calories", in.Calories},
		{"proteins", in.Proteins},
		{"carbs", in.Carbs},
		{"fats", in.Fats},
	}
	for _, f := range fields {
		if err := checkNonNegative(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

// TrainingInput holds the user-supplied fields of a new training.
type TrainingInput struct {
	Type           TrainingType
	Date           time.Time
	Duration       float64
	CaloriesBurned float64
}

// Validate checks the training type and that numbers are non-negative.
func (in TrainingInput) Validate() error {
	if _, err := ParseTrainingType(string(in.Type)); err != nil {
		return err
	}
	if in.Date.IsZero() {
		return fmt.Errorf("training date is required")
	}
	if err := checkNonNegative("duration", in.Duration); err != nil {
		return err
	}
	return checkNonNegative("calories burned", in.CaloriesBurned)
}

func checkNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s must be a finite number", name)
	}
	if v < 0 {
		return fmt.Errorf("%s must not be negative (got %g)", name, v)
	}
	return nil
}
