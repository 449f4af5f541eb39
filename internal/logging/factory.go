package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	BackendSlog = "slog"
	BackendZap  = "zap"

	FormatText = "text"
	FormatJSON = "json"
)

// Options selects and tunes a Logger implementation.
type Options struct {
	Backend string
	Level   string
	Format  string
	Output  io.Writer
}

// New builds the Logger described by opts. Both backends write to
// opts.Output, or to stderr when it is nil. zap always encodes JSON.
func New(opts Options) (Logger, error) {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	switch strings.ToLower(opts.Backend) {
	case "", BackendSlog:
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(levelOrDefault(opts.Level))); err != nil {
			return nil, fmt.Errorf("log level %q: %w", opts.Level, err)
		}

		ho := &slog.HandlerOptions{Level: lvl}
		var h slog.Handler
		switch strings.ToLower(opts.Format) {
		case "", FormatText:
			h = slog.NewTextHandler(opts.Output, ho)
		case FormatJSON:
			h = slog.NewJSONHandler(opts.Output, ho)
		default:
			return nil, fmt.Errorf("unknown log format %q", opts.Format)
		}
		return NewSlogLogger(slog.New(h)), nil

	case BackendZap:
		lvl, err := zapcore.ParseLevel(levelOrDefault(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", opts.Level, err)
		}

		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(opts.Output),
			zap.NewAtomicLevelAt(lvl),
		)
		return NewZapLogger(zap.New(core)), nil

	default:
		return nil, fmt.Errorf("unknown log backend %q", opts.Backend)
	}
}

func levelOrDefault(level string) string {
	if level == "" {
		return "info"
	}
	return level
}
