package calendar

import "errors"

var (
	// ErrInvariant reports an internal consistency failure of the calendar
	// arithmetic. It is not expected for any input in the supported span.
	ErrInvariant = errors.New("calendar invariant violated")

	// ErrOutOfRange reports a caller value outside the supported span.
	ErrOutOfRange = errors.New("value out of supported range")

	// ErrNotFound reports that no month covers the requested date or key.
	ErrNotFound = errors.New("month not found")
)
