// quantile/config.go
package quantile

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Config is the parameter tuple that turns the generic position model into a
// specific quantile definition.
//
// The rank of q in a sample of n is q*(n+F1)+F2. PosH is the threshold below
// which that rank is clamped to zero, and, when non-zero, it also switches on
// the parity rule for discontinuous methods. JDecrement converts the floor of
// the rank into a 0-based index. Discontinuous methods choose GammaL when the
// rank sits on an order statistic (and the parity rule holds) and GammaR
// otherwise.
type Config struct {
	GammaL          float64 `json:"gamma_l" yaml:"gamma_l"`
	GammaR          float64 `json:"gamma_r" yaml:"gamma_r"`
	F1              float64 `json:"f1" yaml:"f1"`
	F2              float64 `json:"f2" yaml:"f2"`
	JDecrement      int     `json:"j_decrement" yaml:"j_decrement"`
	PosH            float64 `json:"pos_h" yaml:"pos_h"`
	Continuous      bool    `json:"continuous" yaml:"continuous"`
	ZeroClamp       bool    `json:"zero_clamp" yaml:"zero_clamp"`
	NearestTiebreak bool    `json:"nearest_tiebreak" yaml:"nearest_tiebreak"`
}

// DefaultConfig returns the neutral tuple: a discontinuous method that always
// takes the right neighbour off the order statistics.
func DefaultConfig() Config {
	return Config{GammaL: 0, GammaR: 1}
}

// configTable is written once during package initialisation and only read
// afterwards, so concurrent lookups need no locking.
var configTable = [numMethods]Config{
	InvertedCDF:         {GammaL: 0, GammaR: 1, F2: -1},
	AveragedInvertedCDF: {GammaL: 0.5, GammaR: 1, F2: -1, ZeroClamp: true},
	ClosestObservation:  {GammaL: 0, GammaR: 1, F2: -0.5, JDecrement: 1, PosH: 1},

	InterpolatedInvertedCDF: {GammaR: 1, JDecrement: 1, Continuous: true},
	Hazen:                   {GammaR: 1, F2: 0.5, JDecrement: 1, Continuous: true},
	Weibull:                 {GammaR: 1, F1: 1, JDecrement: 1, Continuous: true},
	Linear:                  {GammaR: 1, F1: -1, F2: 1, JDecrement: 1, Continuous: true},
	MedianUnbiased:          {GammaR: 1, F1: 1.0 / 3, F2: 1.0 / 3, JDecrement: 1, Continuous: true},
	NormalUnbiased:          {GammaR: 1, F1: 1.0 / 4, F2: 3.0 / 8, JDecrement: 1, Continuous: true},

	Lower:    {GammaL: 0, GammaR: 0, F1: -1},
	Higher:   {GammaL: 0, GammaR: 1, F1: -1},
	Midpoint: {GammaL: 0, GammaR: 0.5, F1: -1},
	// The rank is shifted by 1.5 so that ties land on an integer rank whose
	// parity selects the even 0-based index.
	Nearest: {GammaL: 0, GammaR: 1, F1: -1, F2: 1.5, JDecrement: 2, PosH: 2},
}

// Resolve returns the configuration of m.
//
// AveragedInvertedCDF returns x[0] when n*q is exactly 1, where Hyndman & Fan
// definition 2 averages x[0] and x[1]; its zero clamp keeps q=0 at the minimum.
func Resolve(m Method) (Config, error) {
	if !m.Valid() {
		return Config{}, errors.Wrapf(ErrInvalidArgument, "unknown method %d", int(m))
	}
	return configTable[m], nil
}

// MustResolve is like Resolve but panics on an unknown method.
func MustResolve(m Method) Config {
	c, err := Resolve(m)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate checks a hand-built configuration.
func (c Config) Validate() error {
	for name, v := range map[string]float64{
		"gamma_l": c.GammaL,
		"gamma_r": c.GammaR,
		"f1":      c.F1,
		"f2":      c.F2,
		"pos_h":   c.PosH,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrInvalidArgument, "%s must be finite, got %v", name, v)
		}
	}
	if c.GammaL < 0 || c.GammaL > 1 {
		return errors.Wrapf(ErrInvalidArgument, "gamma_l must be in [0,1], got %v", c.GammaL)
	}
	if c.GammaR < 0 || c.GammaR > 1 {
		return errors.Wrapf(ErrInvalidArgument, "gamma_r must be in [0,1], got %v", c.GammaR)
	}
	if c.JDecrement < 0 {
		return errors.Wrapf(ErrInvalidArgument, "j_decrement must not be negative, got %d", c.JDecrement)
	}
	return nil
}

// String renders the tuple in field order.
func (c Config) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g, %d, %g, %t, %t, %t)",
		c.GammaL, c.GammaR, c.F1, c.F2, c.JDecrement, c.PosH,
		c.Continuous, c.ZeroClamp, c.NearestTiebreak)
}
