package booking

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyField          = errors.New("field is empty")
	ErrBadTimeFormat       = errors.New("time must be HH:MM")
	ErrBadDateFormat       = errors.New("date must be DD/MM/YYYY")
	ErrBadPriceFormat      = errors.New("price must be a number")
	ErrBadStatus           = errors.New("status must be Pendente or Pago")
	ErrNonPositiveDuration = errors.New("start time must be before end time")
	ErrConflict            = errors.New("time conflict")
	ErrNotFound            = errors.New("booking not found")
	ErrCorruptStore        = errors.New("corrupt store file")
	ErrSort                = errors.New("cannot sort column")
)

// ValidationError reports which field of a submission was rejected.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ConflictError carries the stored booking the candidate overlaps.
type ConflictError struct {
	Existing Booking
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time conflict with band %q (%s %s-%s)",
		e.Existing.BandName, e.Existing.Date, e.Existing.StartTime, e.Existing.EndTime)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// CorruptStoreError is returned by Load when the file exists but cannot be decoded.
type CorruptStoreError struct {
	Path string
	Err  error
}

func (e *CorruptStoreError) Error() string {
	return fmt.Sprintf("unable to read data file %s: %v", e.Path, e.Err)
}

func (e *CorruptStoreError) Is(target error) bool { return target == ErrCorruptStore }

func (e *CorruptStoreError) Unwrap() error { return e.Err }

// SortError names the column and the value that failed to parse.
type SortError struct {
	Column string
	Value  string
	Err    error
}

func (e *SortError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cannot sort by %q", e.Column)
	}
	return fmt.Sprintf("cannot sort by %q: value %q: %v", e.Column, e.Value, e.Err)
}

func (e *SortError) Is(target error) bool { return target == ErrSort }

func (e *SortError) Unwrap() error { return e.Err }
