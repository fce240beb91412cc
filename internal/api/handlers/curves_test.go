package handlers

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/RMahshie/modulus/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// linearExport builds an export whose stress is modulus * strain fraction
func linearExport(rows int, modulus float64) string {
	var b strings.Builder
	b.WriteString("Time,Strain,Stress\ns,%,MPa\n")
	for i := 0; i < rows; i++ {
		pct := float64(i) / float64(rows-1)
		fmt.Fprintf(&b, "%d,%g,%g\n", i, pct, modulus*pct/100)
	}
	return b.String()
}

const missingStress = "Strain,Force\n%,N\n0,0\n1,1\n2,2\n3,3\n4,4\n"

func curveParams() models.FitParams {
	return models.FitParams{MinStrain: 0, MaxStrain: 0.01, Window: 5, Order: 2}
}

func TestAnalyzeCurves(t *testing.T) {
	handler := NewCurveHandler(2)

	resp, err := handler.AnalyzeCurves(context.Background(), &models.AnalyzeCurvesRequest{
		Body: models.AnalyzeCurvesRequestBody{
			CSVTexts: []string{linearExport(20, 200), linearExport(20, 70)},
			Params:   curveParams(),
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Body.Curves, 2)

	for i, want := range []float64{200, 70} {
		c := resp.Body.Curves[i]
		assert.Equal(t, i, c.Index)
		assert.Empty(t, c.Error)
		require.NotNil(t, c.Result)
		require.NotNil(t, c.Result.Modulus)
		assert.InDelta(t, want, *c.Result.Modulus, 1e-6)
		assert.Equal(t, "Strain %", c.Result.StrainColumn)
	}
}

func TestAnalyzeCurves_StopsAtFirstFailure(t *testing.T) {
	handler := NewCurveHandler(1)

	_, err := handler.AnalyzeCurves(context.Background(), &models.AnalyzeCurvesRequest{
		Body: models.AnalyzeCurvesRequestBody{
			CSVTexts: []string{linearExport(20, 200), missingStress},
			Params:   curveParams(),
		},
	})
	assertStatus(t, err, 422)
	assert.Contains(t, err.Error(), "Curve 1")
	assert.Contains(t, err.Error(), "no stress column")
}

func TestAnalyzeCurves_KeepGoing(t *testing.T) {
	handler := NewCurveHandler(4)

	resp, err := handler.AnalyzeCurves(context.Background(), &models.AnalyzeCurvesRequest{
		Body: models.AnalyzeCurvesRequestBody{
			CSVTexts:  []string{missingStress, linearExport(20, 200), "Strain,Stress\n%,MPa\n0,0\n"},
			Params:    curveParams(),
			KeepGoing: true,
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Body.Curves, 3)

	assert.Nil(t, resp.Body.Curves[0].Result)
	assert.Contains(t, resp.Body.Curves[0].Error, "no stress column")
	assert.NotContains(t, resp.Body.Curves[0].Error, "curve 0")

	require.NotNil(t, resp.Body.Curves[1].Result)
	assert.InDelta(t, 200, *resp.Body.Curves[1].Result.Modulus, 1e-6)

	assert.Equal(t, 2, resp.Body.Curves[2].Index)
	assert.Contains(t, resp.Body.Curves[2].Error, "window is longer than the series")
}

func TestAnalyzeCurves_InvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		params models.FitParams
	}{
		{"even window", models.FitParams{MaxStrain: 0.01, Window: 6, Order: 2}},
		{"negative order", models.FitParams{MaxStrain: 0.01, Window: 5, Order: -1}},
		{"order equals window", models.FitParams{MaxStrain: 0.01, Window: 5, Order: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCurveHandler(1).AnalyzeCurves(context.Background(), &models.AnalyzeCurvesRequest{
				Body: models.AnalyzeCurvesRequestBody{
					CSVTexts: []string{linearExport(20, 200)},
					Params:   tt.params,
				},
			})
			assertStatus(t, err, 400)
		})
	}
}
