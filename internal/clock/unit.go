package clock

import "strings"

// Unit selects the scale used to present clock offsets.
type Unit string

const (
	UnitSeconds      Unit = "s"
	UnitMicroseconds Unit = "us"
	UnitNanoseconds  Unit = "ns"
)

// ParseUnit accepts short and long unit names, case-insensitively.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "s", "sec", "second", "seconds":
		return UnitSeconds, nil
	case "us", "µs", "microsecond", "microseconds":
		return UnitMicroseconds, nil
	case "ns", "nanosecond", "nanoseconds":
		return UnitNanoseconds, nil
	}
	return "", ErrInvalidUnit
}

// Factor converts seconds to the unit.
func (u Unit) Factor() float64 {
	switch u {
	case UnitMicroseconds:
		return 1e6
	case UnitNanoseconds:
		return 1e9
	default:
		return 1
	}
}

// Label is the axis label for the unit.
func (u Unit) Label() string {
	switch u {
	case UnitMicroseconds:
		return "µs"
	case UnitNanoseconds:
		return "ns"
	default:
		return "s"
	}
}

// Scale returns x multiplied by the unit factor.
func (u Unit) Scale(x []float64) []float64 {
	f := u.Factor()
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v * f
	}
	return out
}
