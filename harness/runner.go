// harness/runner.go
// Package: harness
package harness

import (
	"context"
	"math/rand"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/pkg/errors"

	"github.com/mwiater/goquantile/quantile"
)

// RunSpeedSuite is the single exported entrypoint.
// Provide a SuiteConfig, and it returns detailed results. Trial failures are
// recorded on the trial rather than aborting the suite; cancelling ctx stops
// the suite and returns the trials gathered so far along with the context error.
func RunSpeedSuite(ctx context.Context, cfg SuiteConfig) (SuiteResult, error) {
	if len(cfg.SampleSizes) == 0 {
		return SuiteResult{}, errors.New("at least one sample size is required")
	}
	for _, n := range cfg.SampleSizes {
		if n < 1 {
			return SuiteResult{}, errors.Errorf("sample size %d must be positive", n)
		}
	}
	if len(cfg.Methods) == 0 {
		cfg.Methods = quantile.Methods()
	}
	if len(cfg.Quantiles) == 0 {
		cfg.Quantiles = []float64{0.5, 0.9, 0.99}
	}
	if cfg.Trials <= 0 {
		cfg.Trials = 5
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1000
	}

	kernels := make([]*quantile.Kernel[float64], len(cfg.Methods))
	for i, m := range cfg.Methods {
		k, err := quantile.NewKernel[float64](m)
		if err != nil {
			return SuiteResult{}, err
		}
		kernels[i] = k
	}

	var bar *pb.ProgressBar
	if cfg.Progress != nil {
		bar = pb.Full.New(len(cfg.SampleSizes) * len(kernels) * cfg.Trials)
		bar.SetWriter(cfg.Progress)
		bar.Start()
		defer bar.Finish()
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	var all []TrialResult

	for _, n := range cfg.SampleSizes {
		sample := MakeSample(n, rng)
		for _, k := range kernels {
			if cfg.Warmup {
				_, _ = runTrial(ctx, k, sample, cfg)
			}
			for i := 0; i < cfg.Trials; i++ {
				if err := ctx.Err(); err != nil {
					return buildSuiteResult(cfg, all), err
				}
				tr := TrialResult{Method: k.Name(), SampleSize: n, Trial: i}
				elapsed, sum, err := timeTrial(ctx, k, sample, cfg)
				if err != nil {
					tr.Error = err.Error()
				} else {
					tr.Evaluations = cfg.Iterations * len(cfg.Quantiles)
					tr.TotalNanos = elapsed.Nanoseconds()
					tr.Checksum = sum
					if tr.TotalNanos > 0 {
						tr.NsPerOp = float64(tr.TotalNanos) / float64(tr.Evaluations)
						tr.OpsPerSec = float64(tr.Evaluations) / elapsed.Seconds()
					}
				}
				all = append(all, tr)
				if bar != nil {
					bar.Increment()
				}
			}
		}
	}

	return buildSuiteResult(cfg, all), nil
}

func timeTrial(ctx context.Context, k *quantile.Kernel[float64], sample []float64, cfg SuiteConfig) (time.Duration, float64, error) {
	start := time.Now()
	sum, err := runTrial(ctx, k, sample, cfg)
	return time.Since(start), sum, err
}

// runTrial performs cfg.Iterations passes over cfg.Quantiles and returns the
// sum of every produced value.
func runTrial(ctx context.Context, k *quantile.Kernel[float64], sample []float64, cfg SuiteConfig) (float64, error) {
	var sum float64
	if cfg.Workers > 1 {
		reqs := make([]quantile.Request[float64], 0, cfg.Iterations*len(cfg.Quantiles))
		for i := 0; i < cfg.Iterations; i++ {
			for _, q := range cfg.Quantiles {
				reqs = append(reqs, quantile.Request[float64]{Q: q, Sample: sample})
			}
		}
		values, err := k.Batch(ctx, reqs, quantile.WithWorkers(cfg.Workers))
		if err != nil {
			return 0, err
		}
		for _, v := range values {
			sum += v
		}
		return sum, nil
	}

	for i := 0; i < cfg.Iterations; i++ {
		values, err := k.Quantiles(cfg.Quantiles, sample)
		if err != nil {
			return 0, err
		}
		for _, v := range values {
			sum += v
		}
	}
	return sum, nil
}
