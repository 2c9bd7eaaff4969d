package nutri

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// MinModelTrainings is the smallest training history a model is fitted on.
const MinModelTrainings = 5

// CalorieModel is an ordinary least squares fit of calories burned on
// training duration: calories = Intercept + Slope*duration.
type CalorieModel struct {
	Intercept float64
	Slope     float64

	// RSquared is the coefficient of determination on the held-out
	// trainings. It is NaN when the held-out calories have no variance.
	RSquared float64

	TrainSize int
	TestSize  int
}

// Predict returns the estimated calories burned for a duration in minutes.
func (m *CalorieModel) Predict(duration float64) float64 {
	return m.Intercept + m.Slope*duration
}

// FitCalorieModel fits a CalorieModel on trainings. The oldest 80% train the
// model and the newest ceil(20%) are held out for scoring. Returns an error
// wrapping ErrInsufficientData when there are fewer than MinModelTrainings
// records. When the training durations are all equal the model has slope 0
// and predicts their mean burn.
func FitCalorieModel(trainings []*Training) (*CalorieModel, error) {
	n := len(trainings)
	if n < MinModelTrainings {
		return nil, fmt.Errorf("need at least %d trainings, have %d: %w", MinModelTrainings, n, ErrInsufficientData)
	}

	sorted := make([]*Training, n)
	copy(sorted, trainings)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	testSize := int(math.Ceil(0.2 * float64(n)))
	trainSize := n - testSize

	xTrain, yTrain := split(sorted[:trainSize])
	xTest, yTest := split(sorted[trainSize:])

	// Equal durations leave the slope undefined; the best fit is then the
	// flat line through the mean burn.
	var alpha, beta float64
	if stat.Variance(xTrain, nil) == 0 {
		alpha = stat.Mean(yTrain, nil)
	} else {
		alpha, beta = stat.LinearRegression(xTrain, yTrain, nil, false)
	}

	return &CalorieModel{
		Intercept: alpha,
		Slope:     beta,
		RSquared:  heldOutRSquared(xTest, yTest, alpha, beta),
		TrainSize: trainSize,
		TestSize:  testSize,
	}, nil
}

func split(trainings []*Training) (x, y []float64) {
	x = make([]float64, len(trainings))
	y = make([]float64, len(trainings))
	for i, t := range trainings {
		x[i] = t.Duration
		y[i] = t.CaloriesBurned
	}
	return x, y
}

// heldOutRSquared scores the fit on the held-out trainings. A constant
// held-out target makes R² undefined.
func heldOutRSquared(x, y []float64, alpha, beta float64) float64 {
	constant := true
	for _, v := range y[1:] {
		if v != y[0] {
			constant = false
			break
		}
	}
	if constant {
		return math.NaN()
	}
	return stat.RSquared(x, y, nil, alpha, beta)
}
