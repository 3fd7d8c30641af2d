package quant

import "errors"

// Common errors.
var (
	// ErrInvalidBitWidth reports a non-positive or unsupported bit-width.
	ErrInvalidBitWidth = errors.New("invalid bit-width: must be in [1, 8]")

	// ErrEmptyInput reports an input with no elements: min/max are undefined.
	ErrEmptyInput = errors.New("empty input: cannot derive min/max")

	// ErrInvalidRange reports a degenerate or non-finite calibration range.
	ErrInvalidRange = errors.New("invalid calibration range")

	// ErrInvalidCode reports a code outside [qmin, qmax] in strict mode.
	ErrInvalidCode = errors.New("quantized code out of range")
)
