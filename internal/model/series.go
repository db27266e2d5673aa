package model

import "time"

// ClockSeries is the clock offset (phase) history of one satellite, in seconds.
// Times and Offsets always have the same length.
type ClockSeries struct {
	Satellite string      `json:"satellite"`
	Times     []time.Time `json:"times"`
	Offsets   []float64   `json:"offsets"`
}

// Append adds one sample.
func (s *ClockSeries) Append(t time.Time, offset float64) {
	s.Times = append(s.Times, t)
	s.Offsets = append(s.Offsets, offset)
}

// Extend appends all samples of other.
func (s *ClockSeries) Extend(other *ClockSeries) {
	if other == nil {
		return
	}
	s.Times = append(s.Times, other.Times...)
	s.Offsets = append(s.Offsets, other.Offsets...)
}

// Len returns the number of samples.
func (s *ClockSeries) Len() int { return len(s.Offsets) }
