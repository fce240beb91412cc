package tensile

import (
	"math"
	"strconv"
	"strings"
)

// ParseCell converts one cell to a float. Empty or non-numeric cells yield NaN.
func ParseCell(cell string) float64 {
	s := strings.TrimSpace(cell)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// CoerceColumn parses every cell of a column independently
func CoerceColumn(cells []string) []float64 {
	out := make([]float64, len(cells))
	for i, c := range cells {
		out[i] = ParseCell(c)
	}
	return out
}
