package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/mwiater/goquantile/internal/dataset"
	"github.com/mwiater/goquantile/quantile"
)

func kernels(t *testing.T, methods ...quantile.Method) []*quantile.Kernel[float64] {
	t.Helper()
	var out []*quantile.Kernel[float64]
	for _, m := range methods {
		k, err := quantile.NewKernel[float64](m)
		require.NoError(t, err)
		out = append(out, k)
	}
	return out
}

func TestEvaluate(t *testing.T) {
	sample := []float64{1, 2, 3, 4}
	rows, err := Evaluate(kernels(t, quantile.Linear, quantile.Nearest), []float64{0.5, 1}, sample)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, Row{Method: "linear", Q: 0.5, Value: 2.5, Gamma: 0.5, J: 1}, rows[0])
	assert.Equal(t, "linear", rows[1].Method)
	assert.Equal(t, 4.0, rows[1].Value)
	assert.Equal(t, "nearest", rows[2].Method)
	assert.Equal(t, 3.0, rows[2].Value)
}

func TestEvaluate_Errors(t *testing.T) {
	_, err := Evaluate(kernels(t, quantile.Linear), []float64{0.5}, nil)
	assert.True(t, quantile.IsInvalidArgument(err))

	_, err = Evaluate(kernels(t, quantile.Hazen), []float64{-1}, []float64{1, 2})
	assert.True(t, quantile.IsInvalidArgument(err))
	assert.ErrorContains(t, err, "method hazen")
}

func TestEvaluate_Singleton(t *testing.T) {
	rows, err := Evaluate(kernels(t, quantile.Weibull), []float64{0.3}, []float64{7})
	require.NoError(t, err)
	assert.Equal(t, 7.0, rows[0].Value)
	assert.Equal(t, 0, rows[0].J)
}

func sampleResults() Results {
	s := dataset.Summarize([]float64{1, 2, 3, 4})
	return Results{
		Source:  "sample.txt",
		N:       4,
		Rows:    []Row{{Method: "linear", Q: 0.5, Value: 2.5, Gamma: 0.5, J: 1}},
		Summary: &s,
	}
}

func TestRender_Formats(t *testing.T) {
	cases := map[string]string{
		"text":     ">>> q=0.5",
		"table":    "2.5",
		"markdown": "| linear |",
		"csv":      "linear,0.5,2.5,0.5,1",
		"html":     "<table",
	}
	for format, want := range cases {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, format, sampleResults()))
			assert.Contains(t, buf.String(), want)
		})
	}
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "json", sampleResults()))

	var got Results
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 4, got.N)
	require.NotNil(t, got.Summary)
	assert.Equal(t, 4, got.Summary.Count)
	assert.Equal(t, sampleResults().Rows, got.Rows)
}

func TestRender_UnknownFormat(t *testing.T) {
	assert.Error(t, Render(&bytes.Buffer{}, "xml", sampleResults()))
}

func TestRenderMethods(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderMethods(&buf, "text"))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 13)
	assert.Contains(t, buf.String(), "median_unbiased")

	buf.Reset()
	require.NoError(t, RenderMethods(&buf, "json"))
	var infos []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &infos))
	require.Len(t, infos, 13)
	assert.Equal(t, "inverted_cdf", infos[0]["name"])
	assert.Equal(t, float64(1), infos[0]["hyndman_fan"])

	buf.Reset()
	require.NoError(t, RenderMethods(&buf, "csv"))
	assert.Contains(t, buf.String(), "nearest,0,0,1,-1,1.5,2,2,false,false,false")
}

func TestRenderMatrix(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1.5, 2, 3, 4.25})
	qs := []float64{0.25, 0.75}

	var buf bytes.Buffer
	require.NoError(t, RenderMatrix(&buf, "csv", qs, m))
	assert.Contains(t, buf.String(), "1,3,4.25")

	buf.Reset()
	require.NoError(t, RenderMatrix(&buf, "json", qs, m))
	assert.Contains(t, buf.String(), `"values"`)

	assert.Error(t, RenderMatrix(&buf, "csv", []float64{0.5}, m))
}
