package clock

import "errors"

var (
	ErrInvalidWindow  = errors.New("window size must be positive")
	ErrEvenWindow     = errors.New("window size must be odd")
	ErrTooFewPoints   = errors.New("not enough points")
	ErrLengthMismatch = errors.New("times and values differ in length")
	ErrSingular       = errors.New("least squares system is singular")
	ErrInvalidLag     = errors.New("lag must be positive")
	ErrZeroInterval   = errors.New("zero time interval between samples")
	ErrInvalidRate    = errors.New("sample rate must be positive")
	ErrInvalidTauMode = errors.New("unknown tau mode")
	ErrInvalidUnit    = errors.New("unknown unit")
)
