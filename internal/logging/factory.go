package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jb-empire/empire-desktop/internal/common"
)

// Options selects the logger implementation and its output.
type Options struct {
	Backend string // "slog" (default) or "zap"
	Level   string // debug, info, warn, error
	Format  string // "text" (default) or "json"
	Output  io.Writer
}

// ValidateLevel accepts the levels every backend understands. Empty means
// info.
func ValidateLevel(level string) error {
	switch strings.ToLower(level) {
	case "", "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("%w: log level %q", common.ErrorInvalidArgument, level)
}

// New builds a Logger from opts.
func New(opts Options) (Logger, error) {
	if err := ValidateLevel(opts.Level); err != nil {
		return nil, err
	}
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	switch strings.ToLower(opts.Backend) {
	case "", "slog":
		return newSlog(opts), nil
	case "zap":
		return newZap(opts)
	default:
		return nil, fmt.Errorf("%w: log backend %q", common.ErrorUnknownBackend, opts.Backend)
	}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
