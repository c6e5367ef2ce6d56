// Package logging provides component loggers and request-scoped log fields.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component returns the global logger tagged with a "cmp" field.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}
