// harness/results.go
// Package: harness
package harness

import (
	"sort"
	"time"
)

type summaryKey struct {
	method string
	size   int
}

// summarize builds per-method, per-size summaries from successful trials.
// Reports are ordered by sample size, then method name.
func summarize(trials []TrialResult) []MethodSummary {
	byKey := map[summaryKey][]TrialResult{}
	for _, t := range trials {
		if t.Error != "" {
			continue
		}
		k := summaryKey{t.Method, t.SampleSize}
		byKey[k] = append(byKey[k], t)
	}

	out := make([]MethodSummary, 0, len(byKey))
	for k, rows := range byKey {
		var nsPerOp, ops []float64
		for _, r := range rows {
			nsPerOp = append(nsPerOp, r.NsPerOp)
			ops = append(ops, r.OpsPerSec)
		}
		ms := MethodSummary{
			Method:     k.method,
			SampleSize: k.size,
			NsPerOpP50: percentile(nsPerOp, 0.50),
			NsPerOpP95: percentile(nsPerOp, 0.95),
		}
		ms.OpsMean, ms.OpsStd = meanStd(ops)
		out = append(out, ms)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SampleSize != out[j].SampleSize {
			return out[i].SampleSize < out[j].SampleSize
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// buildSuiteResult packs everything with a timestamp.
func buildSuiteResult(cfg SuiteConfig, trials []TrialResult) SuiteResult {
	return SuiteResult{
		Config:      cfg,
		Trials:      trials,
		Reports:     summarize(trials),
		GeneratedAt: time.Now(),
	}
}
