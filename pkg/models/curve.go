package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// PreviewPoints is the number of leading points copied into StrainValues/StressValues.
const PreviewPoints = 20

// Series is a float sequence that may contain missing values (NaN).
// Non-finite entries are encoded as JSON null and null decodes back to NaN.
type Series []float64

// MarshalJSON implements json.Marshaler
func (s Series) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf.WriteString("null")
			continue
		}
		buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (s *Series) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Series, len(raw))
	for i, v := range raw {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *v
	}
	*s = out
	return nil
}

// FitParams holds the smoothing and fit-window parameters applied to every curve in a batch
type FitParams struct {
	MinStrain float64 `json:"min_strain" doc:"Lower bound of the fit window (strain fraction, inclusive)"`
	MaxStrain float64 `json:"max_strain" doc:"Upper bound of the fit window (strain fraction, inclusive)"`
	Window    int     `json:"window" minimum:"1" maximum:"1001" doc:"Smoothing window length (odd)"`
	Order     int     `json:"order" minimum:"0" doc:"Smoothing polynomial order"`
}

// CurveResult is the analysis output for one stress-strain export
type CurveResult struct {
	StrainColumn string `json:"strain_column" doc:"Header of the resolved strain column"`
	StressColumn string `json:"stress_column" doc:"Header of the resolved stress column"`

	// Preview of the first PreviewPoints points
	StrainValues Series `json:"strain_values" doc:"First 20 strain points (fraction)"`
	StressValues Series `json:"stress_values" doc:"First 20 stress points (MPa)"`

	Strain   Series `json:"strain" doc:"Strain as a fraction (source percent / 100)"`
	Stress   Series `json:"stress" doc:"Raw stress in MPa"`
	Smoothed Series `json:"smoothed" doc:"Savitzky-Golay smoothed stress"`

	FitX Series `json:"fit_x" doc:"Strain points inside the fit window"`
	FitY Series `json:"fit_y" doc:"Fitted stress at fit_x"`

	Modulus *float64 `json:"modulus" doc:"Fitted slope in MPa per unit strain, null if fewer than 2 points were in range"`
	R2      *float64 `json:"r2" doc:"Coefficient of determination of the fit"`
}

// HasFit reports whether a line was fitted
func (c *CurveResult) HasFit() bool {
	return c.Modulus != nil && c.R2 != nil
}
