// harness/metrics.go
// Package: harness
package harness

import (
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/mwiater/goquantile/quantile"
)

var percentileKernel = func() *quantile.Kernel[float64] {
	k, err := quantile.NewKernel[float64](quantile.Linear)
	if err != nil {
		panic(err)
	}
	return k
}()

// percentile returns the q-quantile of values (copy-safe) with the linear method.
func percentile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	cp := slices.Clone(values)
	slices.Sort(cp)
	v, err := percentileKernel.Quantile(q, cp)
	if err != nil {
		return 0
	}
	return v
}

func meanStd(values []float64) (mean, std float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}
