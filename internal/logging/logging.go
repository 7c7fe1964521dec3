package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. DEV gets a human readable console writer,
// every other environment gets JSON lines on stderr.
func New(env, level string) zerolog.Logger {
	var out io.Writer = os.Stderr
	if env == "DEV" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return NewWithWriter(out, level)
}

// NewWithWriter builds a logger writing to out at the parsed level. Unknown
// levels fall back to info.
func NewWithWriter(out io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// KeyPrefix shortens a digest for log output so full keys never reach logs.
func KeyPrefix(key string) string {
	const n = 8
	if len(key) <= n {
		return key
	}
	return key[:n]
}
