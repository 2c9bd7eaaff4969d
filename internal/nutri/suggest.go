package nutri

import (
	"context"
	"errors"
	"time"
)

// DefaultRecipeCount is how many recipes Suggest asks for when the request
// does not say.
const DefaultRecipeCount = 5

// SuggestRequest selects the records a suggestion is computed over.
type SuggestRequest struct {
	Window  Window
	Recipes int
}

// Suggestion is the outcome of Suggest.
type Suggestion struct {
	Window    Window
	Meals     int
	Trainings int
	Balance   Balance
	Targets   MacroTargets
	Query     *RecipeQuery
	Recipes   []Recipe
}

// Suggest computes the calorie balance and macro targets over the records in
// req.Window and, when a recipe finder is configured, looks up matching
// recipes. With no meals and no trainings in the window it fails with
// ErrInsufficientData and never calls the recipe service. If only the recipe
// lookup fails, the suggestion is returned together with the error.
func (s *NutriService) Suggest(ctx context.Context, sess *Session, req SuggestRequest) (*Suggestion, error) {
	const op = "Suggest"

	meals, trainings, err := s.windowedRecords(ctx, op, sess, req.Window)
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 && len(trainings) == 0 {
		return nil, validationErr(op, ErrInsufficientData)
	}

	b := ComputeBalance(meals, trainings)
	sug := &Suggestion{
		Window:    req.Window,
		Meals:     len(meals),
		Trainings: len(trainings),
		Balance:   b,
		Targets:   MacroTargetsFor(b.Deficit),
	}
	if s.recipes == nil {
		return sug, nil
	}

	number := req.Recipes
	if number <= 0 {
		number = DefaultRecipeCount
	}
	q := BuildRecipeQuery(b, sug.Targets, number)
	sug.Query = &q

	recipes, err := s.recipes.FindByNutrients(ctx, q)
	if err != nil {
		return sug, externalErr(op, err)
	}
	sug.Recipes = recipes
	s.logger.Debug("recipes found", "count", len(recipes))
	return sug, nil
}

// FitModel fits a CalorieModel on all of the signed-in user's trainings.
func (s *NutriService) FitModel(ctx context.Context, sess *Session) (*CalorieModel, error) {
	const op = "FitModel"

	trainings, err := s.ListTrainings(ctx, sess)
	if err != nil {
		return nil, err
	}
	m, err := FitCalorieModel(trainings)
	if err != nil {
		if errors.Is(err, ErrInsufficientData) {
			return nil, validationErr(op, err)
		}
		return nil, err
	}
	return m, nil
}

// DailyCalories returns the per-day consumed and burned series within w.
func (s *NutriService) DailyCalories(ctx context.Context, sess *Session, w Window, loc *time.Location) ([]DayTotal, error) {
	meals, trainings, err := s.windowedRecords(ctx, "DailyCalories", sess, w)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}
	return DailyTotals(meals, trainings, loc), nil
}

func (s *NutriService) windowedRecords(ctx context.Context, op string, sess *Session, w Window) ([]*Meal, []*Training, error) {
	u, err := sess.requireUser(op)
	if err != nil {
		return nil, nil, err
	}
	meals, err := s.database.ListMealsByUser(ctx, u.ID)
	if err != nil {
		return nil, nil, storeErr(op, err)
	}
	trainings, err := s.database.ListTrainingsByUser(ctx, u.ID)
	if err != nil {
		return nil, nil, storeErr(op, err)
	}
	return FilterMeals(meals, w), FilterTrainings(trainings, w), nil
}
