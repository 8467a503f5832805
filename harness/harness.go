// harness/harness.go
// Package: harness
package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/k0kubun/pp"
	"github.com/pkg/errors"
)

// Run executes the suite and prints a concise summary to w. With verbose set
// the resolved config is pretty-printed first. With asJSON set the full
// result is written as JSON instead of the summary.
func Run(ctx context.Context, cfg SuiteConfig, w io.Writer, verbose, asJSON bool) (SuiteResult, error) {
	if verbose {
		pp.Fprintln(w, cfg)
	}

	res, err := RunSpeedSuite(ctx, cfg)
	if err != nil {
		return res, err
	}

	if asJSON {
		b, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return res, errors.Wrap(err, "encode results")
		}
		fmt.Fprintln(w, string(b))
		return res, nil
	}

	size := -1
	for _, m := range res.Reports {
		if m.SampleSize != size {
			size = m.SampleSize
			fmt.Fprintf(w, "N = %d\n", size)
		}
		fmt.Fprintf(w, "  %-26s ns/op p50/p95: %8.1f / %8.1f   ops/s mean±std: %.3g ± %.3g\n",
			m.Method, m.NsPerOpP50, m.NsPerOpP95, m.OpsMean, m.OpsStd)
	}
	for _, t := range res.Trials {
		if t.Error != "" {
			fmt.Fprintf(w, "FAILED %s n=%d trial %d: %s\n", t.Method, t.SampleSize, t.Trial, t.Error)
		}
	}
	return res, nil
}
