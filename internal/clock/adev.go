package clock

import (
	"math"
	"sort"

	"sp3clock/internal/model"
)

// Tau grid modes.
const (
	TauAll    = "all"
	TauOctave = "octave"
	TauDecade = "decade"
)

// DefaultMaxTau is the longest averaging time analysed, in seconds.
const DefaultMaxTau = 300000.0

// OverlappingADEV computes the overlapping Allan deviation of phase data
// (seconds) sampled at rate Hz for the requested averaging times. Averaging
// factors that round to zero, repeat, or leave fewer than two second
// differences are dropped.
func OverlappingADEV(phase []float64, rate float64, taus []float64) ([]model.ADEVPoint, error) {
	if rate <= 0 || math.IsInf(rate, 0) || math.IsNaN(rate) {
		return nil, ErrInvalidRate
	}
	n := len(phase)

	seen := make(map[int]struct{}, len(taus))
	ms := make([]int, 0, len(taus))
	for _, tau := range taus {
		m := int(math.Floor(tau*rate + 1e-9))
		if m < 1 || n-2*m <= 1 {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		ms = append(ms, m)
	}
	sort.Ints(ms)

	out := make([]model.ADEVPoint, 0, len(ms))
	for _, m := range ms {
		cnt := n - 2*m
		var s float64
		for i := 0; i < cnt; i++ {
			v := phase[i+2*m] - 2*phase[i+m] + phase[i]
			s += v * v
		}
		dev := math.Sqrt(s/(2*float64(cnt))) / float64(m) * rate
		out = append(out, model.ADEVPoint{
			Tau: float64(m) / rate,
			Dev: dev,
			Err: dev / math.Sqrt(float64(cnt)),
			N:   cnt,
		})
	}
	return out, nil
}

// TauGrid generates averaging times from tau0 up to maxTau.
func TauGrid(mode string, tau0, maxTau float64) ([]float64, error) {
	if tau0 <= 0 {
		return nil, ErrInvalidRate
	}
	var out []float64
	switch mode {
	case TauAll, "":
		for k := 1; float64(k)*tau0 <= maxTau; k++ {
			out = append(out, float64(k)*tau0)
		}
	case TauOctave:
		for tau := tau0; tau <= maxTau; tau *= 2 {
			out = append(out, tau)
		}
	case TauDecade:
		for dec := 1.0; dec*tau0 <= maxTau; dec *= 10 {
			for _, f := range []float64{1, 2, 5} {
				if tau := f * dec * tau0; tau <= maxTau {
					out = append(out, tau)
				}
			}
		}
	default:
		return nil, ErrInvalidTauMode
	}
	return out, nil
}
