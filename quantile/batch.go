// quantile/batch.go
package quantile

import (
	"context"
	"runtime"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Request is one cell of a batch: a quantile of one sorted sample.
type Request[T Number] struct {
	Q      float64
	Sample []T
}

type batchOptions struct {
	workers int
}

// BatchOption tunes Batch and ReduceRows.
type BatchOption func(*batchOptions)

// WithWorkers bounds the number of goroutines evaluating a batch. Values below
// one select runtime.GOMAXPROCS(0).
func WithWorkers(n int) BatchOption {
	return func(o *batchOptions) { o.workers = n }
}

func newBatchOptions(opts []BatchOption) batchOptions {
	o := batchOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	return o
}

// Batch evaluates independent requests concurrently. The result has one value
// per request in request order. Invalid requests do not stop the others: their
// cells are left at zero and their errors are combined into the returned
// error, each annotated with the request index. Cancelling ctx stops
// scheduling further requests and returns the context error.
func (k *Kernel[T]) Batch(ctx context.Context, reqs []Request[T], opts ...BatchOption) ([]float64, error) {
	o := newBatchOptions(opts)
	out := make([]float64, len(reqs))

	var (
		mu   sync.Mutex
		errs error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for i := range reqs {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := k.Quantile(reqs[i].Q, reqs[i].Sample)
			if err != nil {
				mu.Lock()
				errs = multierr.Append(errs, errors.Wrapf(err, "request %d", i))
				mu.Unlock()
				return nil
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, errs
}

// ReduceRows treats every row of m as one sorted sample and evaluates each of
// qs on it. The result has one row per input row and one column per quantile.
func ReduceRows(ctx context.Context, k *Kernel[float64], qs []float64, m mat.Matrix, opts ...BatchOption) (*mat.Dense, error) {
	for _, q := range qs {
		if err := checkQ(q); err != nil {
			return nil, err
		}
	}
	rows, cols := m.Dims()
	if rows == 0 || len(qs) == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "nothing to reduce")
	}
	if cols < 1 {
		return nil, errors.Wrap(ErrInvalidArgument, "rows must not be empty")
	}

	o := newBatchOptions(opts)
	out := mat.NewDense(rows, len(qs), nil)

	raw, dense := m.(mat.RawMatrixer)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for r := 0; r < rows; r++ {
		if gctx.Err() != nil {
			break
		}
		r := r
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var row []float64
			if dense {
				// Contiguous rows are read in place.
				bm := raw.RawMatrix()
				row = bm.Data[r*bm.Stride : r*bm.Stride+cols]
			} else {
				row = mat.Row(nil, r, m)
			}
			for c, q := range qs {
				v, err := k.Quantile(q, row)
				if err != nil {
					return errors.Wrapf(err, "row %d", r)
				}
				out.Set(r, c, v)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
