package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a duration string, returns def on error.
func ParseDuration(value string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		// the configured logger may not exist yet
		log.Warn().Err(err).Str("value", value).Dur("default", def).Msg("Failed to parse duration, using default")
		return def
	}
	return d
}

// ElapsedSeconds returns the whole seconds from start to t, never negative.
func ElapsedSeconds(start, t time.Time) int64 {
	if t.Before(start) {
		return 0
	}
	return int64(t.Sub(start) / time.Second)
}
