package clock

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Seconds returns the elapsed seconds of each time relative to the first.
func Seconds(times []time.Time) []float64 {
	out := make([]float64, len(times))
	if len(times) == 0 {
		return out
	}
	t0 := times[0]
	for i, t := range times {
		out[i] = t.Sub(t0).Seconds()
	}
	return out
}

// PolyFit returns least-squares polynomial coefficients, highest power first.
func PolyFit(t, x []float64, degree int) ([]float64, error) {
	scaled, span, err := fit(t, x, degree)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(scaled))
	for i, c := range scaled {
		out[i] = c / math.Pow(span, float64(degree-i))
	}
	return out, nil
}

// PolyVal evaluates coefficients (highest power first) at t.
func PolyVal(c []float64, t float64) float64 {
	var v float64
	for _, ci := range c {
		v = v*t + ci
	}
	return v
}

// Detrend removes the best-fit polynomial of the given degree and returns the
// residuals along with the fitted coefficients.
func Detrend(t, x []float64, degree int) ([]float64, []float64, error) {
	scaled, span, err := fit(t, x, degree)
	if err != nil {
		return nil, nil, err
	}
	res := make([]float64, len(x))
	for i := range x {
		res[i] = x[i] - PolyVal(scaled, t[i]/span)
	}
	coeffs := make([]float64, len(scaled))
	for i, c := range scaled {
		coeffs[i] = c / math.Pow(span, float64(degree-i))
	}
	return res, coeffs, nil
}

// fit solves the least squares problem on t scaled by its largest magnitude.
func fit(t, x []float64, degree int) ([]float64, float64, error) {
	if len(t) != len(x) {
		return nil, 0, ErrLengthMismatch
	}
	if degree < 0 {
		return nil, 0, fmt.Errorf("negative degree %d", degree)
	}
	n := len(t)
	if n < degree+1 {
		return nil, 0, fmt.Errorf("%w: have %d, need %d", ErrTooFewPoints, n, degree+1)
	}

	span := 0.0
	for _, v := range t {
		span = math.Max(span, math.Abs(v))
	}
	if span == 0 {
		if degree > 0 {
			return nil, 0, ErrSingular
		}
		span = 1
	}

	cols := degree + 1
	a := mat.NewDense(n, cols, nil)
	for i, v := range t {
		s := v / span
		p := 1.0
		for j := cols - 1; j >= 0; j-- {
			a.Set(i, j, p)
			p *= s
		}
	}
	b := mat.NewVecDense(n, append([]float64(nil), x...))

	var c mat.VecDense
	if err := c.SolveVec(a, b); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	out := make([]float64, cols)
	for i := range out {
		out[i] = c.AtVec(i)
	}
	return out, span, nil
}

// RMS returns the root mean square of x.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var s float64
	for _, v := range x {
		s += v * v
	}
	return math.Sqrt(s / float64(len(x)))
}
