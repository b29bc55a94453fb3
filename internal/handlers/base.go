// Package handlers implements the HTTP surface of the relay: the webhook
// receiver, the informational landing pages, and the health endpoint.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"commit-relay/internal/circuitbreaker"
	"commit-relay/internal/common/logging"
	"commit-relay/internal/github"
	"commit-relay/internal/message"
)

// Verifier checks that a webhook request was signed with the shared secret.
type Verifier interface {
	Verify(r *http.Request, body []byte) error
}

// Formatter renders a decoded event into chat lines.
type Formatter interface {
	Format(ctx context.Context, eventType string, event *github.Event) ([]message.Line, error)
}

// Deliverer fans a notification out to the channels that accept its
// repository and reports how many received it.
type Deliverer interface {
	Deliver(repository string, lines []message.Line) int
}

// ChatSession is the slice of the chat connection the handlers touch.
type ChatSession interface {
	EnsureNick()
	Health() error
}

// ShortenerStatus exposes the link shortener's circuit state for health
// reporting.
type ShortenerStatus interface {
	BreakerStats() circuitbreaker.Stats
}

type Handlers struct {
	verifier  Verifier
	formatter Formatter
	router    Deliverer
	chat      ChatSession
	shortener ShortenerStatus
	logger    logging.Logger
}

func New(verifier Verifier, formatter Formatter, router Deliverer, chat ChatSession, shortener ShortenerStatus, logger logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Handlers{
		verifier:  verifier,
		formatter: formatter,
		router:    router,
		chat:      chat,
		shortener: shortener,
		logger:    logger,
	}
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("Failed to encode response", logging.Err(err))
	}
}
