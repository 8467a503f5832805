// cmd/goquantile/sample.go
package goquantile

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mwiater/goquantile/internal/config"
	"github.com/mwiater/goquantile/internal/dataset"
	"github.com/mwiater/goquantile/quantile"
)

// sampleFlags are shared by the commands that read a single sample.
type sampleFlags struct {
	values      []string
	inputFormat string
}

func (f *sampleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.values, "values", nil, "sample values given inline, comma separated")
	cmd.Flags().StringVar(&f.inputFormat, "input-format", "", "input format: text, csv, tsv, json or yaml (default: from extension)")
}

// load returns the sample sorted and a label for it. Input comes from
// --values, or from the file argument ("-" for stdin).
func (f *sampleFlags) load(args []string, cfg *config.Config) ([]float64, string, error) {
	var (
		sample []float64
		source string
		err    error
	)
	switch {
	case len(f.values) > 0:
		sample, err = dataset.ParseFloats(f.values)
		source = "values"
	case len(args) == 1:
		var format dataset.Format
		format, err = dataset.ParseFormat(f.inputFormat)
		if err != nil {
			return nil, "", err
		}
		sample, err = dataset.Load(args[0], format)
		source = args[0]
		if source == "-" {
			source = "stdin"
		}
	default:
		return nil, "", errors.Wrap(quantile.ErrInvalidArgument, "provide a sample file or --values")
	}
	if err != nil {
		return nil, "", err
	}
	if len(sample) == 0 {
		return nil, "", errors.Wrap(quantile.ErrInvalidArgument, "sample is empty")
	}

	if cfg.Sorted {
		if !quantile.IsSorted(sample) {
			logrus.WithField("source", source).Warn("input declared sorted but is not; results are unspecified")
		}
		return sample, source, nil
	}
	return dataset.Sorted(sample), source, nil
}

// quantileArgs returns the --q values, falling back to the configured ones.
func quantileArgs(raw []string, cfg *config.Config) ([]float64, error) {
	if len(raw) == 0 {
		if len(cfg.Quantiles) == 0 {
			return nil, errors.Wrap(quantile.ErrInvalidArgument, "no quantiles given")
		}
		return cfg.Quantiles, nil
	}
	qs, err := config.ParseQuantiles(raw)
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, errors.Wrap(quantile.ErrInvalidArgument, "no quantiles given")
	}
	return qs, nil
}
