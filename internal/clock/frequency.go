package clock

import (
	"fmt"
	"time"
)

// DefaultLag is the frequency differencing lag in epochs (one hour at 30 s).
const DefaultLag = 120

// SecondsPerDay converts a per-second drift to per-day.
const SecondsPerDay = 86400.0

// FrequencyOffset computes the fractional frequency offset over a sliding
// window of lag epochs: y[i] = (x[i+lag]-x[i]) / (t[i+lag]-t[i]).
// The returned times are the window starts.
func FrequencyOffset(times []time.Time, x []float64, lag int) ([]time.Time, []float64, error) {
	if len(times) != len(x) {
		return nil, nil, ErrLengthMismatch
	}
	if lag < 1 {
		return nil, nil, ErrInvalidLag
	}
	n := len(x) - lag
	if n < 1 {
		return nil, nil, fmt.Errorf("%w: have %d, need more than %d", ErrTooFewPoints, len(x), lag)
	}
	ts := make([]time.Time, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		dt := times[i+lag].Sub(times[i]).Seconds()
		if dt == 0 {
			return nil, nil, fmt.Errorf("%w at %s", ErrZeroInterval, times[i].Format(time.RFC3339))
		}
		ts[i] = times[i]
		y[i] = (x[i+lag] - x[i]) / dt
	}
	return ts, y, nil
}

// FrequencyDrift returns the linear drift of a frequency series per day.
func FrequencyDrift(times []time.Time, y []float64) (float64, error) {
	c, err := PolyFit(Seconds(times), y, 1)
	if err != nil {
		return 0, err
	}
	return c[0] * SecondsPerDay, nil
}
