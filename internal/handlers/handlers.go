package handlers

import (
	"time"

	"github.com/abrezinsky/pollbox/internal/services"
	"github.com/abrezinsky/pollbox/internal/session"
)

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Polls    services.PollServicer
	Sessions *session.Manager
	Flash    *session.FlashStore
	Log      HTTPLogger
	location *time.Location
	now      func() time.Time
	checks   []healthCheck
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies. Deadlines
// submitted without a zone are read in location.
func New(polls services.PollServicer, sessions *session.Manager, flash *session.FlashStore, log HTTPLogger, location *time.Location) *Handlers {
	if location == nil {
		location = time.UTC
	}
	return &Handlers{
		Polls:    polls,
		Sessions: sessions,
		Flash:    flash,
		Log:      log,
		location: location,
		now:      time.Now,
	}
}

// SetClock replaces the time source used for relative deadlines. Used by tests.
func (h *Handlers) SetClock(now func() time.Time) {
	h.now = now
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }
