package service

import (
	"database/sql"
	"errors"
)

var (
	ErrIDRequired      = errors.New("id is required")
	ErrNotFound        = errors.New("not found")
	ErrReaderNil       = errors.New("reader is nil")
	ErrInvalidFilename = errors.New("file name must look like RefWWWWD.sp3")
	ErrAlreadyExists   = errors.New("product already exists")
	ErrNoSatellites    = errors.New("no satellites selected")
	ErrUnknownPreset   = errors.New("unknown satellite preset")
	ErrInvalidRange    = errors.New("end date is before start date")
	ErrInvalidWindow   = errors.New("filter window must be odd and within 3..15")
	ErrInvalidUnit     = errors.New("unknown display unit")
	ErrInvalidTauMode  = errors.New("unknown tau grid")
	ErrNoProducts      = errors.New("no products in the selected range")
	ErrUpstream        = errors.New("remote archive unavailable")
)

// notFound translates a missing repository row into ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
