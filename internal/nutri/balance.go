package nutri

import (
	"sort"
	"time"
)

// Balance is the calorie balance over a set of meals and trainings.
// Deficit is Burned minus Consumed; a positive value means more burned than eaten.
type Balance struct {
	Consumed float64
	Burned   float64
	Deficit  float64
}

// Recommendation describes the advice implied by the deficit sign.
func (b Balance) Recommendation() string {
	if b.Deficit > 0 {
		return "you burned more than you ate: choose higher-calorie meals"
	}
	return "you ate at least as much as you burned: reduce calories"
}

// ComputeBalance sums calories consumed and burned. The result does not
// depend on the order of either slice.
func ComputeBalance(meals []*Meal, trainings []*Training) Balance {
	var b Balance
	for _, m := range meals {
		b.Consumed += m.Calories
	}
	for _, t := range trainings {
		b.Burned += t.CaloriesBurned
	}
	b.Deficit = b.Burned - b.Consumed
	return b
}

// Window is a half-open time range [From, To). A zero bound is unbounded,
// so the zero Window covers all time.
type Window struct {
	From time.Time
	To   time.Time
}

// LastDays returns the window covering the n calendar days ending with now's day.
func LastDays(now time.Time, n int) Window {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return Window{From: day.AddDate(0, 0, -(n - 1)), To: day.AddDate(0, 0, 1)}
}

// IsAllTime reports whether the window is unbounded on both sides.
func (w Window) IsAllTime() bool {
	return w.From.IsZero() && w.To.IsZero()
}

// Contains reports whether t falls within the window.
func (w Window) Contains(t time.Time) bool {
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && !t.Before(w.To) {
		return false
	}
	return true
}

// FilterMeals returns the meals created within w.
func FilterMeals(meals []*Meal, w Window) []*Meal {
	out := make([]*Meal, 0, len(meals))
	for _, m := range meals {
		if w.Contains(m.CreatedAt) {
			out = append(out, m)
		}
	}
	return out
}

// FilterTrainings returns the trainings dated within w.
func FilterTrainings(trainings []*Training, w Window) []*Training {
	out := make([]*Training, 0, len(trainings))
	for _, t := range trainings {
		if w.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}

// DayTotal is the calories consumed and burned on one calendar day.
type DayTotal struct {
	Day      time.Time
	Consumed float64
	Burned   float64
}

// DailyTotals groups meals and trainings by calendar day in loc, oldest first.
func DailyTotals(meals []*Meal, trainings []*Training, loc *time.Location) []DayTotal {
	byDay := make(map[time.Time]*DayTotal)
	bucket := func(t time.Time) *DayTotal {
		t = t.In(loc)
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		d, ok := byDay[day]
		if !ok {
			d = &DayTotal{Day: day}
			byDay[day] = d
		}
		return d
	}
	for _, m := range meals {
		bucket(m.CreatedAt).Consumed += m.Calories
	}
	for _, t := range trainings {
		bucket(t.Date).Burned += t.CaloriesBurned
	}

	out := make([]DayTotal, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}
