package tensile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTableTooShort is returned when a CSV text has no unit row
var ErrTableTooShort = errors.New("table needs a label row and a unit row")

// ColumnNotFoundError is returned when no header satisfies a column predicate
type ColumnNotFoundError struct {
	Column  string   // "strain" or "stress"
	Needles []string // substrings that all had to match
	Headers []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("no %s column: no header contains %s (headers: %s)",
		e.Column, quoteAll(e.Needles, " and "), quoteAll(e.Headers, ", "))
}

// InvalidFilterParametersError is returned when the smoothing window and order cannot be applied
type InvalidFilterParametersError struct {
	Window int
	Order  int
	Length int
	Reason string
}

func (e *InvalidFilterParametersError) Error() string {
	if e.Length == 0 {
		return fmt.Sprintf("invalid smoothing parameters (window=%d, order=%d): %s", e.Window, e.Order, e.Reason)
	}
	return fmt.Sprintf("invalid smoothing parameters (window=%d, order=%d, points=%d): %s",
		e.Window, e.Order, e.Length, e.Reason)
}

// DegenerateFitError is returned when every point in the fit window has the same strain
type DegenerateFitError struct {
	Points int
	Strain float64
}

func (e *DegenerateFitError) Error() string {
	return fmt.Sprintf("cannot fit a line: all %d points in the fit window have strain %g", e.Points, e.Strain)
}

// CurveError ties a per-curve failure to its position in a batch
type CurveError struct {
	Index int
	Err   error
}

func (e *CurveError) Error() string {
	return fmt.Sprintf("curve %d: %v", e.Index, e.Err)
}

func (e *CurveError) Unwrap() error {
	return e.Err
}

func quoteAll(items []string, sep string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, sep)
}
