// quantile/interpolate.go
package quantile

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Number is any element type a sample may hold.
type Number interface {
	constraints.Integer | constraints.Float
}

// Precision is the floating point width interpolation is carried out in.
type Precision int

const (
	// Double interpolates in float64.
	Double Precision = iota
	// Single interpolates in float32; used for element types narrower than
	// four bytes.
	Single
)

func (p Precision) String() string {
	if p == Single {
		return "float32"
	}
	return "float64"
}

// PrecisionOf returns the working precision for element type T.
func PrecisionOf[T Number]() Precision {
	var zero T
	if unsafe.Sizeof(zero) < 4 {
		return Single
	}
	return Double
}

// Interpolate blends sorted[j] and sorted[j+1] with weight gamma on the right
// neighbour, in float64. When j is at or past the last index there is no right
// neighbour: the last element is blended with zero, which only matters if
// gamma is non-zero there. A negative j, which only hand-built configurations
// can produce, is read as 0.
//
// A gamma of exactly 0 or 1 returns the chosen neighbour unblended, so an
// infinite value on the zero-weight side does not turn the result into NaN.
func Interpolate[T Number](gamma float64, j int, sorted []T) float64 {
	left, right := neighbours(j, sorted)
	switch gamma {
	case 0:
		return float64(left)
	case 1:
		return float64(right)
	}
	return (1-gamma)*float64(left) + gamma*float64(right)
}

// Interpolate32 is Interpolate carried out in float32.
func Interpolate32[T Number](gamma float64, j int, sorted []T) float32 {
	left, right := neighbours(j, sorted)
	switch gamma {
	case 0:
		return float32(left)
	case 1:
		return float32(right)
	}
	g := float32(gamma)
	return (1-g)*float32(left) + g*float32(right)
}

func neighbours[T Number](j int, sorted []T) (left, right T) {
	n := len(sorted)
	if j < 0 {
		j = 0
	}
	if j >= n-1 {
		return sorted[n-1], 0
	}
	return sorted[j], sorted[j+1]
}
