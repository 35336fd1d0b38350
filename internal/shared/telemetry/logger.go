package telemetry

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stdout, zerolog.InfoLevel, "json")
)

// Configure sets the minimum level (debug, info, warn, error) and the output
// format (json or console). Unknown levels fall back to info.
func Configure(level, format string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(os.Stdout, lvl, format)
}

// SetOutput redirects log lines to w, keeping the current level. It returns a
// function that restores the previous logger.
func SetOutput(w io.Writer) func() {
	mu.Lock()
	defer mu.Unlock()
	prev := logger
	logger = prev.Output(w)
	return func() {
		mu.Lock()
		logger = prev
		mu.Unlock()
	}
}

// Debug writes a debug-level log line with the given fields.
func Debug(msg string, fields map[string]any) {
	write(zerolog.DebugLevel, msg, fields)
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	write(zerolog.InfoLevel, msg, fields)
}

// Warn writes a warn-level log line with the given fields.
func Warn(msg string, fields map[string]any) {
	write(zerolog.WarnLevel, msg, fields)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	write(zerolog.ErrorLevel, msg, fields)
}

func write(level zerolog.Level, msg string, fields map[string]any) {
	mu.RLock()
	l := logger
	mu.RUnlock()

	ev := l.WithLevel(level)
	for k, v := range fields {
		if err, ok := v.(error); ok {
			ev = ev.AnErr(k, err)
			continue
		}
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func init() {
	zerolog.TimestampFieldName = "ts"
	zerolog.MessageFieldName = "msg"
	zerolog.TimeFieldFormat = time.RFC3339
}

func newLogger(w io.Writer, level zerolog.Level, format string) zerolog.Logger {
	if strings.EqualFold(strings.TrimSpace(format), "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
