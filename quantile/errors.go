package quantile

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument reports an unknown method, a negative or NaN
	// quantile, an empty sample or an invalid configuration.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDegenerateInput reports a sample too small to interpolate in. A
	// single-element sample is still answered by Kernel.Quantile; only the
	// checked position model reports it.
	ErrDegenerateInput = errors.New("degenerate input")
)

// IsInvalidArgument reports whether err was caused by ErrInvalidArgument.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsDegenerateInput reports whether err was caused by ErrDegenerateInput.
func IsDegenerateInput(err error) bool {
	return errors.Is(err, ErrDegenerateInput)
}
