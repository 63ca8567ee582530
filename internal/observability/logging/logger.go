// Package logging provides structured logging helpers built on zerolog.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// WithComponent returns a logger with a component tag.
func WithComponent(component string) zerolog.Logger {
	return log.With().
		Str("component", component).
		Logger()
}

// WithCall returns a logger with call context.
func WithCall(callID string) zerolog.Logger {
	return log.With().
		Str("callId", callID).
		Logger()
}

// WithProvider returns a logger with call and provider context.
func WithProvider(callID, provider string) zerolog.Logger {
	return log.With().
		Str("callId", callID).
		Str("provider", provider).
		Logger()
}
