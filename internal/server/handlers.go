package server

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"

	"github.com/pkg/errors"

	"github.com/mwiater/goquantile/quantile"
)

// QuantileRequest is the body of POST /api/quantile.
type QuantileRequest struct {
	Method string    `json:"method"`
	Q      []float64 `json:"q"`
	Sample []float64 `json:"sample"`
	// Sorted skips sorting; the caller vouches for the order.
	Sorted bool `json:"sorted"`
}

// QuantileResult is one evaluated quantile.
type QuantileResult struct {
	Q     float64 `json:"q"`
	Value float64 `json:"value"`
	Gamma float64 `json:"gamma"`
	J     int     `json:"j"`
}

// QuantileResponse answers POST /api/quantile.
type QuantileResponse struct {
	Method  string           `json:"method"`
	N       int              `json:"n"`
	Results []QuantileResult `json:"results"`
}

// BatchRequest is the body of POST /api/batch. Rows may differ in length.
type BatchRequest struct {
	Method string      `json:"method"`
	Q      []float64   `json:"q"`
	Rows   [][]float64 `json:"rows"`
	Sorted bool        `json:"sorted"`
}

// BatchResponse holds one row of values per request row.
type BatchResponse struct {
	Method string      `json:"method"`
	Values [][]float64 `json:"values"`
}

type methodInfo struct {
	Name          string          `json:"name"`
	HyndmanFan    int             `json:"hyndman_fan,omitempty"`
	Discontinuous bool            `json:"discontinuous"`
	Config        quantile.Config `json:"config"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMethods(w http.ResponseWriter, r *http.Request) {
	var out []methodInfo
	for _, m := range quantile.Methods() {
		out = append(out, methodInfo{
			Name:          m.String(),
			HyndmanFan:    m.HyndmanFan(),
			Discontinuous: m.Discontinuous(),
			Config:        quantile.MustResolve(m),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleQuantile(w http.ResponseWriter, r *http.Request) {
	var req QuantileRequest
	if !s.decode(w, r, &req) {
		return
	}
	k, err := kernelFor(req.Method)
	if err != nil {
		s.fail(w, err)
		return
	}
	if len(req.Q) == 0 {
		s.fail(w, errors.Wrap(quantile.ErrInvalidArgument, "q must not be empty"))
		return
	}

	sample := req.Sample
	if !req.Sorted {
		sample = slices.Clone(sample)
		slices.Sort(sample)
	}
	values, err := k.Quantiles(req.Q, sample)
	if err != nil {
		s.fail(w, err)
		return
	}

	resp := QuantileResponse{Method: k.Name(), N: len(sample), Results: make([]QuantileResult, len(req.Q))}
	for i, q := range req.Q {
		resp.Results[i] = QuantileResult{Q: q, Value: values[i]}
		if len(sample) > 1 {
			resp.Results[i].Gamma, resp.Results[i].J = k.Config().Position(q, len(sample))
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !s.decode(w, r, &req) {
		return
	}
	k, err := kernelFor(req.Method)
	if err != nil {
		s.fail(w, err)
		return
	}
	if len(req.Q) == 0 || len(req.Rows) == 0 {
		s.fail(w, errors.Wrap(quantile.ErrInvalidArgument, "q and rows must not be empty"))
		return
	}

	rows := req.Rows
	if !req.Sorted {
		rows = make([][]float64, len(req.Rows))
		for i, row := range req.Rows {
			rows[i] = slices.Clone(row)
			slices.Sort(rows[i])
		}
	}

	reqs := make([]quantile.Request[float64], 0, len(rows)*len(req.Q))
	for _, row := range rows {
		for _, q := range req.Q {
			reqs = append(reqs, quantile.Request[float64]{Q: q, Sample: row})
		}
	}
	flat, err := k.Batch(r.Context(), reqs, quantile.WithWorkers(s.workers))
	if err != nil {
		s.fail(w, err)
		return
	}

	values := make([][]float64, len(rows))
	for i := range rows {
		values[i] = flat[i*len(req.Q) : (i+1)*len(req.Q)]
	}
	writeJSON(w, http.StatusOK, BatchResponse{Method: k.Name(), Values: values})
}

func kernelFor(name string) (*quantile.Kernel[float64], error) {
	if name == "" {
		name = quantile.Linear.String()
	}
	m, err := quantile.ParseMethod(name)
	if err != nil {
		return nil, err
	}
	return quantile.NewKernel[float64](m)
}

// decode reads a JSON body under the size cap. It writes the error response
// itself and reports whether the handler should continue.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case quantile.IsInvalidArgument(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case quantile.IsDegenerateInput(err):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		s.log.WithError(err).Error("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
