package clock

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func epochs(n int, step time.Duration) []time.Time {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = t0.Add(time.Duration(i) * step)
	}
	return out
}

func TestMedianOutlierFilter(t *testing.T) {
	t.Run("replaces spike with window median", func(t *testing.T) {
		in := []float64{1.00, 1.02, 0.97, 1.01, 50.0, 0.99, 1.03, 0.98, 1.02}
		orig := append([]float64(nil), in...)

		out, replaced, err := MedianOutlierFilter(in, 5, DefaultThreshold)
		require.NoError(t, err)

		assert.Equal(t, 1, replaced)
		assert.Equal(t, 1.01, out[4])
		assert.Equal(t, orig, in, "input must not be modified")
		for i, v := range out {
			if i != 4 {
				assert.Equal(t, in[i], v)
			}
		}
	})

	t.Run("flat window uses mad floor", func(t *testing.T) {
		in := []float64{2, 2, 2, 2.5, 2, 2, 2}
		out, replaced, err := MedianOutlierFilter(in, 3, DefaultThreshold)
		require.NoError(t, err)
		assert.Equal(t, 1, replaced)
		assert.Equal(t, 2.0, out[3])
	})

	t.Run("edges are padded", func(t *testing.T) {
		in := []float64{100, 1, 1, 1, 1}
		out, _, err := MedianOutlierFilter(in, 3, DefaultThreshold)
		require.NoError(t, err)
		// window at index 0 is {100, 100, 1}: median 100, so the first point stays
		assert.Equal(t, 100.0, out[0])
	})

	t.Run("window of one is identity", func(t *testing.T) {
		in := []float64{1, 5, 2}
		out, replaced, err := MedianOutlierFilter(in, 1, DefaultThreshold)
		require.NoError(t, err)
		assert.Zero(t, replaced)
		assert.Equal(t, in, out)
	})

	t.Run("empty input", func(t *testing.T) {
		out, replaced, err := MedianOutlierFilter(nil, 7, DefaultThreshold)
		require.NoError(t, err)
		assert.Empty(t, out)
		assert.Zero(t, replaced)
	})

	t.Run("even window", func(t *testing.T) {
		_, _, err := MedianOutlierFilter([]float64{1, 2}, 4, DefaultThreshold)
		assert.ErrorIs(t, err, ErrEvenWindow)
	})

	t.Run("non positive window", func(t *testing.T) {
		_, _, err := MedianOutlierFilter([]float64{1, 2}, 0, DefaultThreshold)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})
}

func TestPolyFit(t *testing.T) {
	ts := Seconds(epochs(2880, 30*time.Second))
	x := make([]float64, len(ts))
	for i, v := range ts {
		x[i] = 3e-16*v*v + 2e-11*v + 5e-4
	}

	c, err := PolyFit(ts, x, 2)
	require.NoError(t, err)
	require.Len(t, c, 3)
	assert.InEpsilon(t, 3e-16, c[0], 1e-6)
	assert.InEpsilon(t, 2e-11, c[1], 1e-6)
	assert.InEpsilon(t, 5e-4, c[2], 1e-9)

	assert.InEpsilon(t, x[100], PolyVal(c, ts[100]), 1e-9)
}

func TestPolyFit_Errors(t *testing.T) {
	_, err := PolyFit([]float64{1}, []float64{1, 2}, 1)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = PolyFit([]float64{1}, []float64{1}, 1)
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = PolyFit([]float64{0, 0, 0}, []float64{1, 2, 3}, 1)
	assert.ErrorIs(t, err, ErrSingular)
}

func TestDetrend(t *testing.T) {
	ts := Seconds(epochs(100, 30*time.Second))
	x := make([]float64, len(ts))
	for i, v := range ts {
		x[i] = 1e-3 + 4e-10*v
		if i%2 == 0 {
			x[i] += 1e-9
		} else {
			x[i] -= 1e-9
		}
	}

	res, c, err := Detrend(ts, x, 1)
	require.NoError(t, err)
	assert.InEpsilon(t, 4e-10, c[0], 1e-3)
	assert.InDelta(t, 1e-9, RMS(res), 1e-11)
	assert.Len(t, res, len(x))
}

func TestFrequencyOffset(t *testing.T) {
	times := epochs(400, 30*time.Second)
	ts := Seconds(times)
	const quad = 1e-18
	x := make([]float64, len(ts))
	for i, v := range ts {
		x[i] = 7e-12*v + quad*v*v
	}

	ft, y, err := FrequencyOffset(times, x, DefaultLag)
	require.NoError(t, err)
	require.Len(t, y, 400-DefaultLag)
	assert.Equal(t, times[:400-DefaultLag], ft)
	// y = 7e-12 + quad*(2t + lag*30)
	assert.InEpsilon(t, 7e-12+quad*(2*ts[10]+DefaultLag*30), y[10], 1e-9)

	drift, err := FrequencyDrift(ft, y)
	require.NoError(t, err)
	assert.InEpsilon(t, 2*quad*SecondsPerDay, drift, 1e-6)
}

func TestFrequencyOffset_Errors(t *testing.T) {
	times := epochs(5, 30*time.Second)
	x := make([]float64, 5)

	_, _, err := FrequencyOffset(times, x, 0)
	assert.ErrorIs(t, err, ErrInvalidLag)

	_, _, err = FrequencyOffset(times, x, 5)
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, _, err = FrequencyOffset(times, x[:4], 2)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	same := []time.Time{times[0], times[0], times[0]}
	_, _, err = FrequencyOffset(same, []float64{1, 2, 3}, 1)
	assert.ErrorIs(t, err, ErrZeroInterval)
}

func TestOverlappingADEV(t *testing.T) {
	const (
		tau0 = 30.0
		a    = 1e-15
		n    = 200
	)
	phase := make([]float64, n)
	for i := range phase {
		ti := float64(i) * tau0
		phase[i] = a * ti * ti
	}

	pts, err := OverlappingADEV(phase, 1/tau0, []float64{30, 60, 300})
	require.NoError(t, err)
	require.Len(t, pts, 3)
	for _, p := range pts {
		// second differences of a*t^2 are constant: dev = sqrt(2)*a*tau
		assert.InEpsilon(t, math.Sqrt2*a*p.Tau, p.Dev, 1e-9)
		assert.Equal(t, n-2*int(p.Tau/tau0), p.N)
		assert.InEpsilon(t, p.Dev/math.Sqrt(float64(p.N)), p.Err, 1e-12)
	}
}

func TestOverlappingADEV_DropsInvalidFactors(t *testing.T) {
	phase := make([]float64, 11)
	for i := range phase {
		phase[i] = float64(i)
	}

	// 10 s rounds to m=0; 45 s and 30 s both give m=1; 150 s leaves one difference
	pts, err := OverlappingADEV(phase, 1.0/30, []float64{10, 45, 30, 120, 150})
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.Equal(t, 30.0, pts[0].Tau)
	assert.Equal(t, 120.0, pts[1].Tau)
	// linear phase has no second differences
	assert.Zero(t, pts[0].Dev)

	_, err = OverlappingADEV(phase, 0, []float64{30})
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestTauGrid(t *testing.T) {
	all, err := TauGrid(TauAll, 30, 150)
	require.NoError(t, err)
	assert.Equal(t, []float64{30, 60, 90, 120, 150}, all)

	oct, err := TauGrid(TauOctave, 30, 300)
	require.NoError(t, err)
	assert.Equal(t, []float64{30, 60, 120, 240}, oct)

	dec, err := TauGrid(TauDecade, 30, 3000)
	require.NoError(t, err)
	assert.Equal(t, []float64{30, 60, 150, 300, 600, 1500, 3000}, dec)

	_, err = TauGrid("weekly", 30, 300)
	assert.ErrorIs(t, err, ErrInvalidTauMode)
}

func TestParseUnit(t *testing.T) {
	tests := []struct {
		in     string
		want   Unit
		factor float64
		label  string
	}{
		{"Seconds", UnitSeconds, 1, "s"},
		{"microseconds", UnitMicroseconds, 1e6, "µs"},
		{"us", UnitMicroseconds, 1e6, "µs"},
		{" NS ", UnitNanoseconds, 1e9, "ns"},
	}
	for _, tt := range tests {
		u, err := ParseUnit(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, u)
		assert.Equal(t, tt.factor, u.Factor())
		assert.Equal(t, tt.label, u.Label())
	}

	_, err := ParseUnit("minutes")
	assert.ErrorIs(t, err, ErrInvalidUnit)

	assert.Equal(t, []float64{1000, 2000}, UnitMicroseconds.Scale([]float64{1e-3, 2e-3}))
}
