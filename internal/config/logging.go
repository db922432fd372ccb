package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ServiceName tags every log line written by NewLogger.
const ServiceName = "virtual-events"

// NewLogger builds the process logger on out (stdout when nil) and installs it
// as the zerolog global. Debug level also records the caller.
func NewLogger(cfg LoggingConfig, out io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if out == nil {
		out = os.Stdout
	}

	level := ParseLevel(cfg.Level)
	if strings.EqualFold(cfg.Format, "console") {
		_, tty := out.(*os.File)
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    !tty,
		}
	}

	lc := zerolog.New(out).Level(level).With().Timestamp().Str("service", ServiceName)
	if level <= zerolog.DebugLevel {
		lc = lc.Caller()
	}
	logger := lc.Logger()
	log.Logger = logger
	return logger
}

// ParseLevel maps a configured level name to a zerolog level. Empty or
// unknown names mean info.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
