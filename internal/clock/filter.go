package clock

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultThreshold is the outlier threshold in multiples of the MAD.
const DefaultThreshold = 5.0

// madFloor replaces a zero MAD on flat windows.
const madFloor = 1e-9

// MedianOutlierFilter replaces points that deviate from their window median
// by more than threshold times the window MAD with that median. The window
// is centred on each point and the series is edge-padded. It returns the
// filtered copy and the number of replaced points.
func MedianOutlierFilter(data []float64, window int, threshold float64) ([]float64, int, error) {
	if window < 1 {
		return nil, 0, ErrInvalidWindow
	}
	if window%2 == 0 {
		return nil, 0, ErrEvenWindow
	}

	n := len(data)
	half := window / 2
	filtered := make([]float64, n)
	copy(filtered, data)
	if n == 0 {
		return filtered, 0, nil
	}

	padded := make([]float64, n+2*half)
	for i := range padded {
		j := i - half
		switch {
		case j < 0:
			j = 0
		case j >= n:
			j = n - 1
		}
		padded[i] = data[j]
	}

	buf := make([]float64, window)
	dev := make([]float64, window)
	replaced := 0
	for i := 0; i < n; i++ {
		copy(buf, padded[i:i+window])
		med := median(buf)
		for k, v := range padded[i : i+window] {
			dev[k] = math.Abs(v - med)
		}
		mad := median(dev)
		if mad == 0 {
			mad = madFloor
		}
		if math.Abs(data[i]-med) > threshold*mad {
			filtered[i] = med
			replaced++
		}
	}
	return filtered, replaced, nil
}

// median sorts x in place. Callers pass odd-length scratch buffers.
func median(x []float64) float64 {
	sort.Float64s(x)
	if len(x)%2 == 0 {
		mid := len(x) / 2
		return (x[mid-1] + x[mid]) / 2
	}
	return stat.Quantile(0.5, stat.Empirical, x, nil)
}
