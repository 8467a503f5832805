// internal/report/results.go
package report

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/mwiater/goquantile/internal/dataset"
	"github.com/mwiater/goquantile/quantile"
)

// Row is one evaluated quantile.
type Row struct {
	Method string  `json:"method"`
	Q      float64 `json:"q"`
	Value  float64 `json:"value"`
	Gamma  float64 `json:"gamma"`
	J      int     `json:"j"`
}

// Results is everything a compute run produces.
type Results struct {
	Source  string           `json:"source,omitempty"`
	N       int              `json:"n"`
	Rows    []Row            `json:"rows"`
	Summary *dataset.Summary `json:"summary,omitempty"`
}

// Evaluate runs every kernel over the same sorted sample. Kernels are
// evaluated concurrently; rows come back grouped by kernel in input order and
// by quantile within a kernel.
func Evaluate(kernels []*quantile.Kernel[float64], qs []float64, sorted []float64) ([]Row, error) {
	if len(sorted) == 0 {
		return nil, errors.Wrap(quantile.ErrInvalidArgument, "sample must not be empty")
	}

	perKernel := make([][]Row, len(kernels))
	errs := make([]error, len(kernels))

	var wg sync.WaitGroup
	for i, k := range kernels {
		wg.Add(1)
		go func(i int, k *quantile.Kernel[float64]) {
			defer wg.Done()
			perKernel[i], errs[i] = evaluateOne(k, qs, sorted)
		}(i, k)
	}
	wg.Wait()

	var rows []Row
	for i := range kernels {
		if errs[i] != nil {
			return nil, errors.Wrapf(errs[i], "method %s", kernels[i].Name())
		}
		rows = append(rows, perKernel[i]...)
	}
	return rows, nil
}

func evaluateOne(k *quantile.Kernel[float64], qs []float64, sorted []float64) ([]Row, error) {
	values, err := k.Quantiles(qs, sorted)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, len(qs))
	for i, q := range qs {
		rows[i] = Row{Method: k.Name(), Q: q, Value: values[i]}
		if len(sorted) > 1 {
			rows[i].Gamma, rows[i].J = k.Config().Position(q, len(sorted))
		}
	}
	return rows, nil
}
