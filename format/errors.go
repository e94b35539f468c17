package format

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrOutOfRange is matched, through errors.Is, by every error reporting a
// numeric field outside the bounds of a profile.
var ErrOutOfRange = errors.New("value out of range")

// A RangeError reports a numeric field outside the bounds of a profile.
type RangeError struct {
	// Name of the offending field, e.g. "block size".
	Field string
	// Offending value.
	Value int64
	// Inclusive bounds of the field under Profile.
	Min, Max int64
	// Profile the bounds belong to.
	Profile Profile
	// Optional explanation of the violated rule.
	Reason string
}

// Error returns a human readable description of the error.
func (e *RangeError) Error() string {
	msg := fmt.Sprintf("%s %d out of range [%d, %d] (%v)", e.Field, e.Value, e.Min, e.Max, e.Profile)
	if e.Reason != "" {
		msg += "; " + e.Reason
	}
	return msg
}

// Is reports whether target is ErrOutOfRange.
func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// rangeCheck returns a *RangeError if v is outside [min, max].
func rangeCheck(field string, v, min, max int64, p Profile) error {
	if v < min || v > max {
		return wrapRange(&RangeError{Field: field, Value: v, Min: min, Max: max, Profile: p})
	}
	return nil
}

// wrapRange annotates e with a stack trace.
func wrapRange(e *RangeError) error {
	return errors.WithStack(e)
}
