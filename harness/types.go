// harness/types.go
// Package: harness
package harness

import (
	"io"
	"time"

	"github.com/mwiater/goquantile/quantile"
)

// SuiteConfig configures the entire run.
type SuiteConfig struct {
	// Methods to time. Empty means all of them.
	Methods []quantile.Method `json:"methods"`

	// Sample sizes; one sorted sample is generated per size.
	SampleSizes []int `json:"sample_sizes"`

	// Quantiles evaluated per pass over a sample.
	Quantiles []float64 `json:"quantiles"`

	// Number of timed trials per method and size.
	Trials int `json:"trials"`

	// Evaluations per trial. Each evaluation walks every quantile once.
	Iterations int `json:"iterations"`

	// Whether to run one untimed trial per method before the timed ones.
	Warmup bool `json:"warmup"`

	// Workers > 1 times the concurrent Batch path instead of the serial one.
	Workers int `json:"workers"`

	// Seed for the sample generator; equal seeds give equal samples.
	Seed int64 `json:"seed"`

	// Progress receives a progress bar when non-nil.
	Progress io.Writer `json:"-"`
}

// TrialResult captures one timed trial.
type TrialResult struct {
	Method      string `json:"method"`
	SampleSize  int    `json:"sample_size"`
	Trial       int    `json:"trial"`
	Evaluations int    `json:"evaluations"`

	TotalNanos int64   `json:"total_ns"`
	NsPerOp    float64 `json:"ns_per_op"`
	OpsPerSec  float64 `json:"ops_per_sec"`

	// Checksum is the sum of every value produced; it keeps the work observable.
	Checksum float64 `json:"checksum"`

	Error string `json:"error,omitempty"`
}

// MethodSummary aggregates the trials of one method at one sample size.
type MethodSummary struct {
	Method     string `json:"method"`
	SampleSize int    `json:"sample_size"`

	NsPerOpP50 float64 `json:"ns_per_op_p50"`
	NsPerOpP95 float64 `json:"ns_per_op_p95"`

	OpsMean float64 `json:"ops_per_sec_mean"`
	OpsStd  float64 `json:"ops_per_sec_std"`
}

// SuiteResult is the top-level artifact returned by RunSpeedSuite.
type SuiteResult struct {
	Config      SuiteConfig     `json:"config"`
	Trials      []TrialResult   `json:"trials"`
	Reports     []MethodSummary `json:"reports"`
	GeneratedAt time.Time       `json:"generated_at"`
}
