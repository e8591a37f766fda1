package cli

import (
	"io"
	"os"
	"time"

	"geo-quiz-service/internal/config"
	"github.com/rs/zerolog"
)

func newLogger(cfg config.Config) zerolog.Logger {
	var out io.Writer = os.Stderr
	if cfg.Log.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}

	level := zerolog.InfoLevel
	if cfg.Log.Level != "" {
		if lvl, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
			level = lvl
		}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "geo-quiz").Logger()
}
