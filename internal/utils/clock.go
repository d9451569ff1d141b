package utils

import (
	"fmt"
	"time"
)

// Clock abstracts the current time so "today" can be pinned in tests
type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

// NewClock returns the system clock reporting time in loc (the business time zone)
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// FixedClock always reports the same instant
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time {
	return c.T
}

// FixedClockOn returns a clock pinned to local midnight of d in loc
func FixedClockOn(d Date, loc *time.Location) FixedClock {
	if loc == nil {
		loc = time.Local
	}
	return FixedClock{T: d.In(loc)}
}

// Today is the calendar date of clock.Now() in the clock's own zone
func Today(c Clock) Date {
	return DateOf(c.Now())
}

// LoadLocation resolves a time zone name, falling back to the process zone when empty
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q: %w", name, err)
	}
	return loc, nil
}
