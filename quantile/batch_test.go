package quantile

import (
	"context"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"
)

func TestBatch_MatchesSequential(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	k, err := NewKernel[float64](Hazen)
	require.NoError(t, err)

	reqs := make([]Request[float64], 200)
	want := make([]float64, len(reqs))
	for i := range reqs {
		reqs[i] = Request[float64]{Q: r.Float64(), Sample: randomSorted(r, 1+r.Intn(30))}
		want[i], err = k.Quantile(reqs[i].Q, reqs[i].Sample)
		require.NoError(t, err)
	}

	for _, workers := range []int{0, 1, 3, 16} {
		got, err := k.Batch(context.Background(), reqs, WithWorkers(workers))
		require.NoError(t, err)
		if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
			t.Fatalf("workers=%d mismatch (-want +got):\n%s", workers, diff)
		}
	}
}

func TestBatch_CollectsErrors(t *testing.T) {
	k, err := NewKernel[int](Lower)
	require.NoError(t, err)

	reqs := []Request[int]{
		{Q: 0.5, Sample: []int{1, 2, 3}},
		{Q: -1, Sample: []int{1, 2, 3}},
		{Q: 0.5, Sample: nil},
		{Q: 1, Sample: []int{4, 9}},
	}
	got, err := k.Batch(context.Background(), reqs, WithWorkers(2))
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
	assert.Len(t, multierr.Errors(err), 2)
	assert.Contains(t, err.Error(), "request 1")
	assert.Contains(t, err.Error(), "request 2")
	assert.Equal(t, []float64{2, 0, 0, 9}, got)
}

func TestBatch_Cancelled(t *testing.T) {
	k, err := NewKernel[float64](Linear)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = k.Batch(ctx, []Request[float64]{{Q: 0.5, Sample: []float64{1, 2}}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReduceRows(t *testing.T) {
	data := mat.NewDense(3, 4, []float64{
		1, 2, 3, 4,
		10, 20, 30, 40,
		-4, -2, 0, 2,
	})
	k, err := NewKernel[float64](Linear)
	require.NoError(t, err)

	out, err := ReduceRows(context.Background(), k, []float64{0, 0.5, 1}, data, WithWorkers(2))
	require.NoError(t, err)

	rows, cols := out.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, []float64{1, 2.5, 4}, out.RawRowView(0))
	assert.Equal(t, []float64{10, 25, 40}, out.RawRowView(1))
	assert.Equal(t, []float64{-4, -1, 2}, out.RawRowView(2))

	// a transposed view has no contiguous rows
	cols3 := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	tr, err := ReduceRows(context.Background(), k, []float64{0.5}, cols3.T(), WithWorkers(1))
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, mat.Col(nil, 0, tr))
}

func TestReduceRows_Invalid(t *testing.T) {
	k, err := NewKernel[float64](Linear)
	require.NoError(t, err)
	data := mat.NewDense(1, 2, []float64{1, 2})

	_, err = ReduceRows(context.Background(), k, []float64{-0.5}, data)
	assert.True(t, IsInvalidArgument(err))

	_, err = ReduceRows(context.Background(), k, nil, data)
	assert.True(t, IsInvalidArgument(err))
}
