// internal/config/config.go
package config

import (
	"io/fs"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/mwiater/goquantile/quantile"
)

// EnvPrefix prefixes every environment variable the application reads, for
// example GOQUANTILE_METHOD or GOQUANTILE_LOG_LEVEL.
const EnvPrefix = "GOQUANTILE"

// LogConfig controls the logrus setup.
type LogConfig struct {
	// Level is a logrus level name such as "info" or "debug".
	Level string `mapstructure:"level" json:"level"`
	// Format is "text" or "json".
	Format string `mapstructure:"format" json:"format"`
	// File, when set, receives a JSON copy of every entry through a rotating writer.
	File string `mapstructure:"file" json:"file"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr         string `mapstructure:"addr" json:"addr"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes" json:"max_body_bytes"`
}

// BenchConfig controls the speed suite.
type BenchConfig struct {
	Sizes      []int `mapstructure:"sizes" json:"sizes"`
	Trials     int   `mapstructure:"trials" json:"trials"`
	Iterations int   `mapstructure:"iterations" json:"iterations"`
	Warmup     bool  `mapstructure:"warmup" json:"warmup"`
	Progress   bool  `mapstructure:"progress" json:"progress"`
	Seed       int64 `mapstructure:"seed" json:"seed"`
}

// Config is the resolved application configuration.
type Config struct {
	// Method is the default quantile method name.
	Method string `mapstructure:"method" json:"method"`
	// Quantiles are evaluated when a command is given none.
	Quantiles []float64 `mapstructure:"quantiles" json:"quantiles"`
	// Workers bounds batch parallelism; 0 means GOMAXPROCS.
	Workers int `mapstructure:"workers" json:"workers"`
	// Format selects the output renderer.
	Format string `mapstructure:"format" json:"format"`
	// Sorted declares inputs already sorted, skipping the sort step.
	Sorted bool `mapstructure:"sorted" json:"sorted"`
	// Debug lowers the log level to debug.
	Debug bool `mapstructure:"debug" json:"debug"`

	Log    LogConfig    `mapstructure:"log" json:"log"`
	Server ServerConfig `mapstructure:"server" json:"server"`
	Bench  BenchConfig  `mapstructure:"bench" json:"bench"`
}

// Formats lists the accepted output formats.
var Formats = []string{"text", "table", "markdown", "csv", "html", "json"}

// SetDefaults registers every key with its default so that environment
// variables are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("method", quantile.Linear.String())
	v.SetDefault("quantiles", []float64{0.25, 0.5, 0.75})
	v.SetDefault("workers", 0)
	v.SetDefault("format", "text")
	v.SetDefault("sorted", false)
	v.SetDefault("debug", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_body_bytes", 8<<20)

	v.SetDefault("bench.sizes", []int{16, 1024, 65536})
	v.SetDefault("bench.trials", 5)
	v.SetDefault("bench.iterations", 10000)
	v.SetDefault("bench.warmup", true)
	v.SetDefault("bench.progress", false)
	v.SetDefault("bench.seed", 1)
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	Prepare(v)
	return v
}

// Prepare applies defaults and environment binding to an existing instance.
func Prepare(v *viper.Viper) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Load reads .env (if present) and the config file at path (if non-empty),
// then unmarshals and validates the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "could not load .env")
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "could not read config file %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "could not decode configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that commands rely on.
func (c *Config) Validate() error {
	if _, err := quantile.ParseMethod(c.Method); err != nil {
		return errors.Wrap(err, "config: method")
	}
	for _, q := range c.Quantiles {
		if !(q >= 0) {
			return errors.Errorf("config: quantile %v must be non-negative", q)
		}
	}
	if c.Workers < 0 {
		return errors.Errorf("config: workers must not be negative, got %d", c.Workers)
	}
	if !validFormat(c.Format) {
		return errors.Errorf("config: unknown format %q (want one of %s)", c.Format, strings.Join(Formats, ", "))
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.Errorf("config: server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}
	for _, n := range c.Bench.Sizes {
		if n < 1 {
			return errors.Errorf("config: bench size %d must be positive", n)
		}
	}
	return nil
}

// MethodValue returns the parsed default method.
func (c *Config) MethodValue() quantile.Method {
	m, _ := quantile.ParseMethod(c.Method)
	return m
}

func validFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// ParseQuantiles parses quantile arguments. Besides plain fractions it
// accepts percentages ("95%") and percentile shorthands ("p95", "p99.9").
func ParseQuantiles(args []string) ([]float64, error) {
	var out []float64
	for _, arg := range args {
		for _, field := range strings.Split(arg, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			q, err := parseQuantile(field)
			if err != nil {
				return nil, err
			}
			out = append(out, q)
		}
	}
	return out, nil
}

func parseQuantile(s string) (float64, error) {
	scale := 1.0
	num := s
	switch {
	case strings.HasSuffix(s, "%"):
		num, scale = strings.TrimSuffix(s, "%"), 100
	case strings.HasPrefix(strings.ToLower(s), "p"):
		num, scale = s[1:], 100
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, errors.Wrapf(quantile.ErrInvalidArgument, "cannot parse quantile %q", s)
	}
	q := v / scale
	if !(q >= 0) {
		return 0, errors.Wrapf(quantile.ErrInvalidArgument, "quantile %q must not be negative", s)
	}
	return q, nil
}
