package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrLengthMismatch is returned when forecasts and actuals differ in length.
var ErrLengthMismatch = errors.New("forecast and actual lengths differ")

// Accuracy holds point-forecast error metrics. All values are >= 0.
type Accuracy struct {
	RMSE float64
	MAE  float64
	MAPE float64 // percent
}

// ForecastAccuracy scores forecast against actual element-wise.
//
// MAPE divides each absolute error by |actual|, except where actual is 0,
// in which case the divisor is 1.
func ForecastAccuracy(forecast, actual []float64) (Accuracy, error) {
	if len(forecast) != len(actual) {
		return Accuracy{}, ErrLengthMismatch
	}
	if len(forecast) == 0 {
		return Accuracy{}, errors.New("no points to score")
	}

	diff := make([]float64, len(forecast))
	floats.SubTo(diff, forecast, actual)

	sq := make([]float64, len(diff))
	abs := make([]float64, len(diff))
	pct := make([]float64, len(diff))
	for i, d := range diff {
		sq[i] = d * d
		abs[i] = math.Abs(d)
		denom := math.Abs(actual[i])
		if actual[i] == 0 {
			denom = 1.0
		}
		pct[i] = abs[i] / denom
	}

	return Accuracy{
		RMSE: math.Sqrt(stat.Mean(sq, nil)),
		MAE:  stat.Mean(abs, nil),
		MAPE: stat.Mean(pct, nil) * 100,
	}, nil
}
