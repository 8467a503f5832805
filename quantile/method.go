// quantile/method.go
package quantile

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Method identifies one of the supported quantile definitions.
type Method int

const (
	// InvertedCDF is Hyndman & Fan definition 1.
	InvertedCDF Method = iota
	// AveragedInvertedCDF is Hyndman & Fan definition 2.
	AveragedInvertedCDF
	// ClosestObservation is Hyndman & Fan definition 3.
	ClosestObservation
	// InterpolatedInvertedCDF is Hyndman & Fan definition 4.
	InterpolatedInvertedCDF
	// Hazen is Hyndman & Fan definition 5.
	Hazen
	// Weibull is Hyndman & Fan definition 6.
	Weibull
	// Linear is Hyndman & Fan definition 7, the default of most packages.
	Linear
	// MedianUnbiased is Hyndman & Fan definition 8.
	MedianUnbiased
	// NormalUnbiased is Hyndman & Fan definition 9.
	NormalUnbiased
	// Lower picks the order statistic at or below the linear rank.
	Lower
	// Higher picks the order statistic at or above the linear rank.
	Higher
	// Midpoint averages Lower and Higher.
	Midpoint
	// Nearest picks the closest order statistic, ties going to the even index.
	Nearest

	numMethods
)

var methodNames = [numMethods]string{
	InvertedCDF:             "inverted_cdf",
	AveragedInvertedCDF:     "averaged_inverted_cdf",
	ClosestObservation:      "closest_observation",
	InterpolatedInvertedCDF: "interpolated_inverted_cdf",
	Hazen:                   "hazen",
	Weibull:                 "weibull",
	Linear:                  "linear",
	MedianUnbiased:          "median_unbiased",
	NormalUnbiased:          "normal_unbiased",
	Lower:                   "lower",
	Higher:                  "higher",
	Midpoint:                "midpoint",
	Nearest:                 "nearest",
}

// String returns the canonical snake_case name of the method.
func (m Method) String() string {
	if !m.Valid() {
		return "Method(" + strconv.Itoa(int(m)) + ")"
	}
	return methodNames[m]
}

// Valid reports whether m is one of the known methods.
func (m Method) Valid() bool {
	return m >= 0 && m < numMethods
}

// Discontinuous reports whether the method is a step function of q.
func (m Method) Discontinuous() bool {
	if !m.Valid() {
		return false
	}
	return !configTable[m].Continuous
}

// HyndmanFan returns the Hyndman & Fan definition number (1..9), or 0 for the
// methods outside that taxonomy.
func (m Method) HyndmanFan() int {
	if m >= InvertedCDF && m <= NormalUnbiased {
		return int(m) + 1
	}
	return 0
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, errors.Wrapf(ErrInvalidArgument, "unknown method %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(b []byte) error {
	parsed, err := ParseMethod(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Methods returns all supported methods in definition order.
func Methods() []Method {
	out := make([]Method, 0, numMethods)
	for m := Method(0); m < numMethods; m++ {
		out = append(out, m)
	}
	return out
}

// ParseMethod resolves a method name. Names are matched case-insensitively
// with '-' and ' ' treated as '_'; the Hyndman & Fan numbers "1" to "9" are
// accepted as well.
func ParseMethod(s string) (Method, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.NewReplacer("-", "_", " ", "_").Replace(name)

	if n, err := strconv.Atoi(name); err == nil {
		if n >= 1 && n <= 9 {
			return Method(n - 1), nil
		}
		return 0, errors.Wrapf(ErrInvalidArgument, "no Hyndman-Fan definition %d", n)
	}

	for m, known := range methodNames {
		if name == known {
			return Method(m), nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidArgument, "unknown method %q", s)
}
