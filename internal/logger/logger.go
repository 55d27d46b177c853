package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds the application logger. Development mode writes human readable
// console output, anything else writes JSON lines.
func New(level string, development bool) zerolog.Logger {
	return NewWithWriter(os.Stdout, level, development)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level string, development bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if development {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "clinic-booking").Logger()
}

// GormWriter adapts a zerolog.Logger to gorm's logger.Writer.
type GormWriter struct {
	Logger zerolog.Logger
}

// Printf implements gorm.io/gorm/logger.Writer. gorm only emits slow
// queries and errors at the configured level, so they are logged as warnings.
func (w GormWriter) Printf(format string, args ...interface{}) {
	w.Logger.Warn().Str("component", "gorm").Msgf(format, args...)
}
