package tensile

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Fit is a least-squares line of stress against strain over the fit window
type Fit struct {
	X         []float64 // strain points inside the window
	Y         []float64 // fitted stress at X
	Slope     float64
	Intercept float64
	R2        float64
	Fitted    bool // false when fewer than 2 points were in the window
}

// FitWindow fits smoothed stress against strain for every point with
// minStrain <= strain <= maxStrain. Points with a missing strain or stress are skipped.
// Fewer than two usable points is not an error: the returned Fit has Fitted == false.
func FitWindow(strain, smoothed []float64, minStrain, maxStrain float64) (Fit, error) {
	if len(strain) != len(smoothed) {
		return Fit{}, fmt.Errorf("strain and stress lengths differ: %d != %d", len(strain), len(smoothed))
	}

	var xs, ys []float64
	for i, s := range strain {
		if s >= minStrain && s <= maxStrain && isFinite(smoothed[i]) {
			xs = append(xs, s)
			ys = append(ys, smoothed[i])
		}
	}
	if len(xs) < 2 {
		return Fit{}, nil
	}

	lo, _ := stats.Min(xs)
	hi, _ := stats.Max(xs)
	if lo == hi {
		return Fit{}, &DegenerateFitError{Points: len(xs), Strain: lo}
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	predicted := make([]float64, len(xs))
	for i, x := range xs {
		predicted[i] = alpha + beta*x
	}

	return Fit{
		X:         xs,
		Y:         predicted,
		Slope:     beta,
		Intercept: alpha,
		R2:        rSquared(predicted, ys),
		Fitted:    true,
	}, nil
}

// rSquared is 1 - SS_res/SS_tot. A constant target scores 1 when it is
// reproduced exactly and 0 otherwise.
func rSquared(predicted, values []float64) float64 {
	variance, _ := stats.PopulationVariance(values)
	if variance == 0 {
		for i := range values {
			if predicted[i] != values[i] {
				return 0
			}
		}
		return 1
	}
	return stat.RSquaredFrom(predicted, values, nil)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
