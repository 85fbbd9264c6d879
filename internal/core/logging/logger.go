// Package logging configures the global zerolog logger for lia.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup installs l, with ContextHook attached, as the global logger.
func Setup(l zerolog.Logger) {
	log.Logger = l.Hook(ContextHook{})
}

// Component creates a new logger with a component identifier.
// Uses the "cmp" key for consistency with zerolog conventions.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}
