// Package logger configures the global zerolog logger.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Config represents logger configuration.
type Config struct {
	Output string // "stdout", "stderr", "none", or "file"
	Level  string // "debug", "info", "warn", "error"
	File   string // log file path (used when Output is "file")
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Init installs the global logger and returns a closer for the log file.
// The terminal UI owns stdout, so play sessions log to a file.
func Init(cfg Config) (io.Closer, error) {
	level := ParseLevel(cfg.Level)

	var (
		writer  io.Writer
		closer  io.Closer = nopCloser{}
		console bool
	)
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		writer, console = os.Stdout, true
	case "stderr", "":
		writer, console = os.Stderr, true
	case "none":
		writer = io.Discard
	default:
		if cfg.File == "" {
			return nil, errors.New("log file path is empty")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, errors.Wrap(err, "failed to create log dir")
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open log file")
		}
		writer, closer = f, f
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		parts := strings.Split(file, string(filepath.Separator))
		if len(parts) > 1 {
			return filepath.Join(parts[len(parts)-2:]...) + ":" + strconv.Itoa(line)
		}
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}

	var ctx zerolog.Context
	if console {
		ctx = zerolog.New(zerolog.ConsoleWriter{Out: writer, TimeFormat: time.TimeOnly}).With().Timestamp()
	} else {
		ctx = zerolog.New(writer).With().Timestamp()
	}
	if level == zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	logger := ctx.Logger()
	zerolog.DefaultContextLogger = &logger
	zlog.Logger = logger

	return closer, nil
}

// ParseLevel maps a level name to zerolog, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
