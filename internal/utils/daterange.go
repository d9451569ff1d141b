package utils

import (
	"math"
	"time"
)

const dayMillis = 24 * 60 * 60 * 1000

// RangeErrorCode identifies why a date range was rejected
type RangeErrorCode string

const (
	RangeErrInvalid   RangeErrorCode = "INVALID_RANGE"
	RangeErrPastStart RangeErrorCode = "PAST_START"
)

// Field names reported with range errors
const (
	FieldStartDate = "start_date"
	FieldEndDate   = "end_date"
)

// DateRange is a (start, end) pair of calendar dates
type DateRange struct {
	Start Date `json:"start_date"`
	End   Date `json:"end_date"`
}

// RangeError is a single validation failure of a DateRange
type RangeError struct {
	Code    RangeErrorCode `json:"code"`
	Field   string         `json:"field"`
	Message string         `json:"message"`
}

// RangeValidation is the result of ValidateRange
type RangeValidation struct {
	Valid  bool         `json:"valid"`
	Errors []RangeError `json:"errors,omitempty"`
}

// Has reports whether the validation contains an error with the given code
func (v RangeValidation) Has(code RangeErrorCode) bool {
	for _, e := range v.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

// ValidateOptions controls the start-date floor.
// Today is the floor unless MinStart overrides it or AllowPast disables it.
type ValidateOptions struct {
	Today     Date
	MinStart  *Date
	AllowPast bool
}

// ValidateRange checks end > start and start >= floor. Both failures may be reported.
func ValidateRange(start, end Date, opts ValidateOptions) RangeValidation {
	var errs []RangeError

	if !end.After(start) {
		errs = append(errs, RangeError{
			Code:    RangeErrInvalid,
			Field:   FieldEndDate,
			Message: "end date must be after start date",
		})
	}

	if !opts.AllowPast {
		floor := opts.Today
		if opts.MinStart != nil {
			floor = *opts.MinStart
		}
		if !floor.IsZero() && start.Before(floor) {
			errs = append(errs, RangeError{
				Code:    RangeErrPastStart,
				Field:   FieldStartDate,
				Message: "start date cannot be in the past",
			})
		}
	}

	return RangeValidation{Valid: len(errs) == 0, Errors: errs}
}

// Validate runs ValidateRange on the receiver
func (r DateRange) Validate(opts ValidateOptions) RangeValidation {
	return ValidateRange(r.Start, r.End, opts)
}

// DaysBetweenInclusiveStart returns ceil((end - start) / 1 day), never less than 1.
// 2025-03-10 to 2025-03-12 is 2 days.
func DaysBetweenInclusiveStart(start, end Date) int {
	diff := end.utc().Sub(start.utc()).Milliseconds()
	days := int(math.Ceil(float64(diff) / dayMillis))
	if days < 1 {
		return 1
	}
	return days
}

// Days is DaysBetweenInclusiveStart for the receiver
func (r DateRange) Days() int {
	return DaysBetweenInclusiveStart(r.Start, r.End)
}

// DaysRemaining is the signed number of days from today until end; negative once end has passed
func DaysRemaining(today, end Date) int {
	return int(end.utc().Sub(today.utc()) / (24 * time.Hour))
}

// Overlaps reports whether two closed intervals share at least one day
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}
