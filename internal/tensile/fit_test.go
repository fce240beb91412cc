package tensile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitWindow_ExactLine(t *testing.T) {
	strain := make([]float64, 50)
	stress := make([]float64, 50)
	for i := range strain {
		strain[i] = float64(i) * 0.0002
		stress[i] = 70000*strain[i] + 3
	}

	fit, err := FitWindow(strain, stress, 0.001, 0.005)
	require.NoError(t, err)
	require.True(t, fit.Fitted)

	assert.InDelta(t, 70000, fit.Slope, 1e-6)
	assert.InDelta(t, 3, fit.Intercept, 1e-9)
	assert.InDelta(t, 1.0, fit.R2, 1e-12)
	assert.Len(t, fit.Y, len(fit.X))
	for _, x := range fit.X {
		assert.GreaterOrEqual(t, x, 0.001)
		assert.LessOrEqual(t, x, 0.005)
	}
}

func TestFitWindow_InclusiveBounds(t *testing.T) {
	strain := []float64{0.1, 0.2, 0.3, 0.4}
	stress := []float64{1, 2, 3, 4}

	fit, err := FitWindow(strain, stress, 0.2, 0.3)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.2, 0.3}, fit.X)
}

func TestFitWindow_PredictionsNotRawValues(t *testing.T) {
	strain := []float64{0, 1, 2, 3}
	stress := []float64{0, 2, 1, 3}

	fit, err := FitWindow(strain, stress, 0, 3)
	require.NoError(t, err)
	require.True(t, fit.Fitted)

	assert.InDelta(t, 0.8, fit.Slope, 1e-12)
	assert.InDelta(t, 0.3, fit.Intercept, 1e-12)
	assert.InDeltaSlice(t, []float64{0.3, 1.1, 1.9, 2.7}, fit.Y, 1e-12)
	assert.InDelta(t, 0.64, fit.R2, 1e-12)
}

func TestFitWindow_TooFewPoints(t *testing.T) {
	strain := []float64{0.001, 0.002, 0.003}
	stress := []float64{1, 2, 3}

	tests := []struct {
		name     string
		min, max float64
	}{
		{name: "one point", min: 0.0015, max: 0.0025},
		{name: "no points", min: 0.5, max: 0.6},
		{name: "inverted window", min: 0.003, max: 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fit, err := FitWindow(strain, stress, tt.min, tt.max)
			require.NoError(t, err)
			assert.False(t, fit.Fitted)
			assert.Empty(t, fit.X)
			assert.Empty(t, fit.Y)
		})
	}
}

func TestFitWindow_SkipsMissingValues(t *testing.T) {
	nan := math.NaN()
	strain := []float64{0.001, nan, 0.003, 0.004, 0.005}
	stress := []float64{1, 2, nan, 4, 5}

	fit, err := FitWindow(strain, stress, 0, 1)
	require.NoError(t, err)
	require.True(t, fit.Fitted)
	assert.Equal(t, []float64{0.001, 0.004, 0.005}, fit.X)
	assert.InDelta(t, 1000, fit.Slope, 1e-6)
}

func TestFitWindow_DegenerateStrain(t *testing.T) {
	strain := []float64{0.002, 0.002, 0.002}
	stress := []float64{1, 2, 3}

	_, err := FitWindow(strain, stress, 0, 1)
	var degenerate *DegenerateFitError
	require.ErrorAs(t, err, &degenerate)
	assert.Equal(t, 3, degenerate.Points)
	assert.Equal(t, 0.002, degenerate.Strain)
}

func TestFitWindow_ConstantStress(t *testing.T) {
	strain := []float64{0.001, 0.002, 0.003}
	stress := []float64{5, 5, 5}

	fit, err := FitWindow(strain, stress, 0, 1)
	require.NoError(t, err)
	require.True(t, fit.Fitted)
	assert.InDelta(t, 0, fit.Slope, 1e-9)
	assert.Equal(t, 1.0, fit.R2)
}

func TestFitWindow_LengthMismatch(t *testing.T) {
	_, err := FitWindow([]float64{1, 2}, []float64{1}, 0, 1)
	assert.Error(t, err)
}
