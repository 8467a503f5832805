package quantile

import (
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestKernel_FourElementSample(t *testing.T) {
	sample := []float64{1, 2, 3, 4}
	qs := []float64{0, 0.25, 0.5, 0.75, 1}
	want := map[Method][]float64{
		InvertedCDF:             {1, 1, 2, 3, 4},
		AveragedInvertedCDF:     {1, 1, 2.5, 3.5, 4},
		ClosestObservation:      {1, 1, 2, 3, 4},
		InterpolatedInvertedCDF: {1, 1, 2, 3, 4},
		Hazen:                   {1, 1.5, 2.5, 3.5, 4},
		Weibull:                 {1, 1.25, 2.5, 3.75, 4},
		Linear:                  {1, 1.75, 2.5, 3.25, 4},
		MedianUnbiased:          {1, 1 + 5.0/12, 2.5, 3 + 7.0/12, 4},
		NormalUnbiased:          {1, 1.4375, 2.5, 3.5625, 4},
		Lower:                   {1, 1, 2, 3, 4},
		Higher:                  {1, 2, 3, 4, 4},
		Midpoint:                {1, 1.5, 2.5, 3.5, 4},
		Nearest:                 {1, 2, 3, 3, 4},
	}
	require.Len(t, want, len(Methods()))

	for m, expected := range want {
		k, err := NewKernel[float64](m)
		require.NoError(t, err)
		got, err := k.Quantiles(qs, sample)
		require.NoError(t, err)
		assert.InDeltaSlice(t, expected, got, 1e-9, m.String())
	}
}

func TestKernel_TenElementSample(t *testing.T) {
	sample := []int{3, 6, 7, 8, 8, 10, 13, 15, 16, 20}
	qs := []float64{0.25, 0.5, 0.75, 0.9}
	want := map[Method][]float64{
		InvertedCDF:             {7, 8, 15, 16},
		AveragedInvertedCDF:     {7, 9, 15, 18},
		ClosestObservation:      {6, 8, 15, 16},
		InterpolatedInvertedCDF: {6.5, 8, 14, 16},
		Hazen:                   {7, 9, 15, 18},
		Weibull:                 {6.75, 9, 15.25, 19.6},
		Linear:                  {7.25, 9, 14.5, 16.4},
		MedianUnbiased:          {6.916666666666667, 9, 15.083333333333334, 18.533333333333333},
		NormalUnbiased:          {6.9375, 9, 15.0625, 18.4},
		Lower:                   {7, 8, 13, 16},
		Higher:                  {8, 10, 15, 20},
		Midpoint:                {7.5, 9, 14, 18},
		Nearest:                 {7, 8, 15, 16},
	}
	for m, expected := range want {
		k, err := NewKernel[int](m)
		require.NoError(t, err)
		got, err := k.Quantiles(qs, sample)
		require.NoError(t, err)
		assert.InDeltaSlice(t, expected, got, 1e-9, m.String())
	}
}

func TestKernel_Endpoints(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for n := 2; n < 40; n++ {
		sample := randomSorted(r, n)
		for _, m := range Methods() {
			lo, err := Compute(m, 0, sample)
			require.NoError(t, err)
			assert.Equal(t, sample[0], lo, "%s n=%d", m, n)

			for _, q := range []float64{1, 1.25} {
				hi, err := Compute(m, q, sample)
				require.NoError(t, err)
				assert.Equal(t, sample[n-1], hi, "%s n=%d q=%v", m, n, q)
			}
		}
	}
}

func TestKernel_Singleton(t *testing.T) {
	for _, m := range Methods() {
		for _, q := range []float64{0, 0.3, 0.5, 0.99, 1} {
			v, err := Compute(m, q, []float32{42.5})
			require.NoError(t, err)
			assert.Equal(t, 42.5, v, m.String())
		}
	}
}

func TestKernel_MonotoneAndBounded(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for _, n := range []int{2, 3, 4, 5, 8, 13, 50} {
		sample := randomSorted(r, n)
		lo, hi := floats.Min(sample), floats.Max(sample)
		for _, m := range Methods() {
			k, err := NewKernel[float64](m)
			require.NoError(t, err)

			prev := math.Inf(-1)
			for i := 0; i <= 400; i++ {
				q := float64(i) / 400
				v, err := k.Quantile(q, sample)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, v, prev-1e-9, "%s n=%d q=%v", m, n, q)
				assert.GreaterOrEqual(t, v, lo-1e-9)
				assert.LessOrEqual(t, v, hi+1e-9)
				prev = v
			}
		}
	}
}

func TestKernel_Deterministic(t *testing.T) {
	sample := randomSorted(rand.New(rand.NewSource(3)), 101)
	for _, m := range Methods() {
		a, err := Compute(m, 0.377, sample)
		require.NoError(t, err)
		b, err := Compute(m, 0.377, sample)
		require.NoError(t, err)
		assert.Equal(t, math.Float64bits(a), math.Float64bits(b))
	}
}

func TestKernel_DoesNotMutate(t *testing.T) {
	sample := []float64{1, 5, 9, 12}
	before := slices.Clone(sample)
	for _, m := range Methods() {
		_, err := Compute(m, 0.4, sample)
		require.NoError(t, err)
	}
	assert.Equal(t, before, sample)
}

func TestKernel_InvalidArguments(t *testing.T) {
	k, err := NewKernel[float64](Linear)
	require.NoError(t, err)

	_, err = k.Quantile(-0.1, []float64{1, 2})
	assert.True(t, IsInvalidArgument(err))

	_, err = k.Quantile(math.NaN(), []float64{1, 2})
	assert.True(t, IsInvalidArgument(err))

	_, err = k.Quantile(0.5, nil)
	assert.True(t, IsInvalidArgument(err))

	_, err = NewKernel[float64](Method(99))
	assert.True(t, IsInvalidArgument(err))

	_, err = k.Quantiles([]float64{0.5, -1}, []float64{1, 2})
	assert.True(t, IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "quantile 1")
}

func TestKernel_CheckedPosition(t *testing.T) {
	k, err := NewKernel[float64](Linear)
	require.NoError(t, err)

	_, _, err = k.Position(0.5, 1)
	assert.True(t, IsDegenerateInput(err))
	assert.False(t, IsInvalidArgument(err))

	_, _, err = k.Position(0.5, 0)
	assert.True(t, IsInvalidArgument(err))

	gamma, j, err := k.Position(0.5, 4)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, gamma, 1e-12)
	assert.Equal(t, 1, j)
}

func TestKernel_Precision(t *testing.T) {
	k8, err := NewKernel[int8](Linear)
	require.NoError(t, err)
	assert.Equal(t, Single, k8.Precision())

	k16, err := NewKernel[uint16](Linear)
	require.NoError(t, err)
	assert.Equal(t, Single, k16.Precision())

	k32, err := NewKernel[int32](Linear)
	require.NoError(t, err)
	assert.Equal(t, Double, k32.Precision())

	v, err := k8.Quantile(0.5, []int8{-100, -3, 7, 120})
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	v, err = k16.Quantile(0.25, []uint16{0, 100, 200, 65535})
	require.NoError(t, err)
	assert.InDelta(t, 75.0, v, 1e-4)
}

func TestKernel_CustomConfig(t *testing.T) {
	// the neutral tuple behaves like "higher" on a 0-based rank of q*n
	k, err := NewKernelFromConfig[float64](DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "custom", k.Name())
	_, ok := k.Method()
	assert.False(t, ok)

	v, err := k.Quantile(0.5, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	_, err = NewKernelFromConfig[float64](Config{GammaL: 2})
	assert.True(t, IsInvalidArgument(err))
}

func TestInterpolate_PastLastIndex(t *testing.T) {
	sample := []float64{1, 2, 3}
	assert.Equal(t, 3.0, Interpolate(0, 2, sample))
	assert.Equal(t, 3.0, Interpolate(0, 5, sample))
	// no right neighbour: the blend is towards zero
	assert.Equal(t, 1.5, Interpolate(0.5, 2, sample))
	assert.Equal(t, float32(2.5), Interpolate32(0.5, 1, sample))
}

func TestKernel_InfiniteEndpoints(t *testing.T) {
	negInf := []float64{math.Inf(-1), 1}
	posInf := []float64{1, math.Inf(1)}
	for _, m := range Methods() {
		t.Run(m.String(), func(t *testing.T) {
			v, err := Compute(m, 1, negInf)
			require.NoError(t, err)
			assert.Equal(t, 1.0, v, "q=1 must return the maximum")

			v, err = Compute(m, 0, posInf)
			require.NoError(t, err)
			assert.Equal(t, 1.0, v, "q=0 must return the minimum")
		})
	}

	v, err := Compute(InvertedCDF, 0.75, negInf)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	assert.Equal(t, float32(1), Interpolate32(1, 0, []float32{float32(math.Inf(-1)), 1}))
	assert.Equal(t, float32(1), Interpolate32(0, 0, []float32{1, float32(math.Inf(1))}))
}

func TestIsSorted(t *testing.T) {
	assert.True(t, IsSorted([]int{1, 1, 2}))
	assert.False(t, IsSorted([]int{2, 1}))
}

func randomSorted(r *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Round(r.NormFloat64()*1000) / 10
	}
	slices.Sort(out)
	return out
}
