package ctl

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"sourced/internal/common/envutil"
	"sourced/internal/logging"
)

var logger = newLogger(os.Stderr, envutil.Str("SOURCECTL_LOG_LEVEL", "warn"))

func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).Level(lvl).With().Timestamp().Logger()
}

// SetLogLevel changes the level of the client's stderr logger.
func SetLogLevel(level string) { logger = logger.Level(levelOr(level, logger.GetLevel())) }

func levelOr(s string, def zerolog.Level) zerolog.Level {
	lvl, err := logging.ParseLevel(s)
	if err != nil {
		return def
	}
	return lvl
}

func debug(format string, a ...any) { logger.Debug().Msg(fmt.Sprintf(format, a...)) }
func info(format string, a ...any)  { logger.Info().Msg(fmt.Sprintf(format, a...)) }
