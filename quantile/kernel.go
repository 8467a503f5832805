// quantile/kernel.go
package quantile

import (
	"math"
	"slices"

	"github.com/pkg/errors"
)

// Kernel evaluates one quantile definition over samples of element type T.
// The configuration and working precision are fixed at construction, so the
// per-request path does no method dispatch. A Kernel is immutable and safe for
// concurrent use.
type Kernel[T Number] struct {
	method    Method
	custom    bool
	config    Config
	precision Precision
}

// NewKernel resolves m once and returns a kernel for it.
func NewKernel[T Number](m Method) (*Kernel[T], error) {
	cfg, err := Resolve(m)
	if err != nil {
		return nil, err
	}
	return &Kernel[T]{method: m, config: cfg, precision: PrecisionOf[T]()}, nil
}

// NewKernelFromConfig returns a kernel for a hand-built configuration.
func NewKernelFromConfig[T Number](cfg Config) (*Kernel[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Kernel[T]{method: -1, custom: true, config: cfg, precision: PrecisionOf[T]()}, nil
}

// Method returns the method the kernel was built for. ok is false for
// kernels built from a custom configuration.
func (k *Kernel[T]) Method() (m Method, ok bool) {
	return k.method, !k.custom
}

// Config returns the kernel's parameter tuple.
func (k *Kernel[T]) Config() Config { return k.config }

// Precision returns the working precision chosen for T.
func (k *Kernel[T]) Precision() Precision { return k.precision }

// Name returns the method name, or "custom".
func (k *Kernel[T]) Name() string {
	if k.custom {
		return "custom"
	}
	return k.method.String()
}

// Position is the checked form of Config.Position.
func (k *Kernel[T]) Position(q float64, n int) (float64, int, error) {
	if err := checkQ(q); err != nil {
		return 0, 0, err
	}
	if n < 1 {
		return 0, 0, errors.Wrapf(ErrInvalidArgument, "sample size must be at least 1, got %d", n)
	}
	if n < 2 {
		return 0, 0, errors.Wrapf(ErrDegenerateInput, "sample size %d is too small to interpolate", n)
	}
	gamma, j := k.config.Position(q, n)
	return gamma, j, nil
}

// Quantile returns the q-quantile of sorted. q above 1 is treated as 1. A
// single-element sample answers with that element for every q.
func (k *Kernel[T]) Quantile(q float64, sorted []T) (float64, error) {
	if err := checkQ(q); err != nil {
		return 0, err
	}
	n := len(sorted)
	if n < 1 {
		return 0, errors.Wrap(ErrInvalidArgument, "sample must not be empty")
	}
	if n == 1 {
		return float64(sorted[0]), nil
	}
	return k.eval(q, sorted), nil
}

// Quantiles evaluates several quantiles over the same sample.
func (k *Kernel[T]) Quantiles(qs []float64, sorted []T) ([]float64, error) {
	out := make([]float64, len(qs))
	for i, q := range qs {
		v, err := k.Quantile(q, sorted)
		if err != nil {
			return nil, errors.Wrapf(err, "quantile %d", i)
		}
		out[i] = v
	}
	return out, nil
}

// eval assumes validated input with at least two elements.
func (k *Kernel[T]) eval(q float64, sorted []T) float64 {
	gamma, j := k.config.Position(q, len(sorted))
	if k.precision == Single {
		return float64(Interpolate32(gamma, j, sorted))
	}
	return Interpolate(gamma, j, sorted)
}

// Compute returns the q-quantile of sorted under method m.
func Compute[T Number](m Method, q float64, sorted []T) (float64, error) {
	k, err := NewKernel[T](m)
	if err != nil {
		return 0, err
	}
	return k.Quantile(q, sorted)
}

// IsSorted reports whether sample is in ascending order. The kernel does not
// call it; it is offered to callers that cannot vouch for their input.
func IsSorted[T Number](sample []T) bool {
	return slices.IsSorted(sample)
}

func checkQ(q float64) error {
	if math.IsNaN(q) {
		return errors.Wrap(ErrInvalidArgument, "quantile is NaN")
	}
	if q < 0 {
		return errors.Wrapf(ErrInvalidArgument, "quantile must not be negative, got %v", q)
	}
	return nil
}
