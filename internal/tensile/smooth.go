package tensile

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MaxWindow is the longest smoothing window accepted.
const MaxWindow = 1001

// Smooth applies a Savitzky-Golay filter of the given window length and polynomial order.
//
// Each interior point is replaced by the value at the window centre of a least-squares
// polynomial fitted to the window/2 samples on either side. The first and last window/2
// points are taken from the polynomial fitted to the first and last window samples.
// The output has the same length as y; a NaN sample makes every output whose window
// covers it NaN.
func Smooth(y []float64, window, order int) ([]float64, error) {
	if err := validateFilter(len(y), window, order); err != nil {
		return nil, err
	}

	f, err := newSavgol(window, order)
	if err != nil {
		return nil, err
	}

	n := len(y)
	half := window / 2
	out := make([]float64, n)
	for i := half; i < n-half; i++ {
		out[i] = floats.Dot(f.centre, y[i-half:i+half+1])
	}

	if half > 0 {
		left, err := f.coefficients(y[:window])
		if err != nil {
			return nil, err
		}
		right, err := f.coefficients(y[n-window:])
		if err != nil {
			return nil, err
		}
		for i := 0; i < half; i++ {
			out[i] = f.eval(left, i)
			out[n-half+i] = f.eval(right, window-half+i)
		}
	}
	return out, nil
}

func validateFilter(n, window, order int) error {
	reason := filterReason(window, order)
	if reason == "" && window > n {
		reason = "window is longer than the series"
	}
	if reason == "" {
		return nil
	}
	return &InvalidFilterParametersError{Window: window, Order: order, Length: n, Reason: reason}
}

func filterReason(window, order int) string {
	switch {
	case window < 1:
		return "window must be positive"
	case window%2 == 0:
		return "window must be odd"
	case window > MaxWindow:
		return fmt.Sprintf("window must not exceed %d", MaxWindow)
	case order < 0:
		return "order must not be negative"
	case order >= window:
		return "order must be less than window"
	}
	return ""
}

// savgol holds the least-squares factorisation of the window Vandermonde matrix.
// Sample positions are centred on the window and scaled to [-1, 1].
type savgol struct {
	qr     mat.QR
	order  int
	half   int
	scale  float64
	centre []float64
}

func newSavgol(window, order int) (*savgol, error) {
	f := &savgol{order: order, half: window / 2, scale: 1}
	if f.half > 0 {
		f.scale = float64(f.half)
	}

	vander := mat.NewDense(window, order+1, nil)
	for i := 0; i < window; i++ {
		x := f.position(i)
		for j := 0; j <= order; j++ {
			vander.Set(i, j, math.Pow(x, float64(j)))
		}
	}
	f.qr.Factorize(vander)

	// Centre weights are the minimum-norm solution of V^T w = V[half,:], which is e0.
	e0 := mat.NewVecDense(order+1, nil)
	e0.SetVec(0, 1)
	var w mat.VecDense
	if err := f.qr.SolveVecTo(&w, true, e0); err != nil {
		return nil, fmt.Errorf("failed to solve smoothing coefficients: %w", err)
	}
	f.centre = w.RawVector().Data
	return f, nil
}

func (f *savgol) position(i int) float64 {
	return float64(i-f.half) / f.scale
}

// coefficients fits the polynomial to one window of samples.
func (f *savgol) coefficients(seg []float64) (*mat.VecDense, error) {
	var c mat.VecDense
	if err := f.qr.SolveVecTo(&c, false, mat.NewVecDense(len(seg), seg)); err != nil {
		return nil, fmt.Errorf("failed to solve smoothing coefficients: %w", err)
	}
	return &c, nil
}

// eval evaluates the fitted polynomial at sample i of the window.
func (f *savgol) eval(c *mat.VecDense, i int) float64 {
	x := f.position(i)
	sum, pow := 0.0, 1.0
	for j := 0; j <= f.order; j++ {
		sum += c.AtVec(j) * pow
		pow *= x
	}
	return sum
}
