// internal/logging/logging.go
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mwiater/goquantile/internal/config"
)

// Options describes how a logger should be configured.
type Options struct {
	config.LogConfig
	// Debug forces the debug level regardless of Level.
	Debug bool
	// Quiet discards console output. The file hook, if any, still receives entries.
	Quiet bool
	// Output overrides the console writer; defaults to stderr.
	Output io.Writer
}

// Configure applies opts to logger and returns a closer for the rotating
// file writer. The closer is a no-op when no file is configured.
func Configure(logger *logrus.Logger, opts Options) (io.Closer, error) {
	level := logrus.InfoLevel
	if opts.Level != "" {
		lvl, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid log level %q", opts.Level)
		}
		level = lvl
	}
	if opts.Debug {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	switch strings.ToLower(opts.Format) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, errors.Errorf("invalid log format %q", opts.Format)
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if opts.Quiet {
		out = io.Discard
	}
	logger.SetOutput(out)
	// Hooks from an earlier Configure on the same logger are dropped.
	logger.ReplaceHooks(make(logrus.LevelHooks))

	if opts.File == "" {
		return nopCloser{}, nil
	}

	rotator := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}
	writers := lfshook.WriterMap{}
	for _, lvl := range logrus.AllLevels {
		writers[lvl] = rotator
	}
	logger.AddHook(lfshook.NewHook(writers, &logrus.JSONFormatter{}))
	return rotator, nil
}

// New returns a freshly configured logger.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()
	closer, err := Configure(logger, opts)
	if err != nil {
		return nil, nil, err
	}
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
