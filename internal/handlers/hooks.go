package handlers

import (
	"errors"
	"io"
	"net/http"

	apperrors "commit-relay/internal/common/errors"
	"commit-relay/internal/common/logging"
	"commit-relay/internal/github"
)

// maxBodyBytes caps webhook request bodies. GitHub's own payload limit is
// well under this.
const maxBodyBytes = 1 << 20

const (
	rootGreeting = "Commitbot lives here. Direct your hooks to /github.\n"
	hookGreeting = "You found the Github hook!\n"
)

type hookResponse struct {
	Event      string `json:"event"`
	Repository string `json:"repository"`
	Sender     string `json:"sender"`
	Action     string `json:"action,omitempty"`
	Delivered  int    `json:"delivered"`
}

// HandleRoot greets visitors that hit the service root by hand.
func (h *Handlers) HandleRoot(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(rootGreeting))
}

// HandleHookInfo answers GET requests to the hook endpoint, which GitHub
// never sends but people checking their hook URL do.
func (h *Handlers) HandleHookInfo(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(hookGreeting))
}

// HandleHook processes a signed webhook delivery: verify, decode, format,
// deliver, then echo what happened. Failures past authentication and
// validation never fail the delivery; GitHub retries are pointless when the
// notification was deliberately dropped.
func (h *Handlers) HandleHook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Warn("Failed to read webhook body", logging.Err(err))
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	if err := h.verifier.Verify(r, body); err != nil {
		h.logger.Warn("Rejected webhook signature",
			logging.String("remote_addr", r.RemoteAddr))
		http.Error(w, "signature verification failed", http.StatusInternalServerError)
		return
	}

	event, err := github.ParsePayload(r.Header.Get("Content-Type"), body)
	if err != nil {
		if errors.Is(err, github.ErrUnsupportedContentType) {
			http.Error(w, "unsupported content type", http.StatusUnsupportedMediaType)
			return
		}
		h.logger.Debug("Discarded malformed payload", logging.Err(err))
		http.Error(w, "malformed payload", http.StatusBadRequest)
		return
	}

	if err := event.Validate(); err != nil {
		h.logger.Debug("Discarded incomplete payload", logging.Err(err))
		http.Error(w, "incomplete payload", http.StatusBadRequest)
		return
	}

	eventType := r.Header.Get(github.EventHeader)
	response := hookResponse{
		Event:      eventType,
		Repository: event.Repository.Name,
		Sender:     event.Sender.Login,
		Action:     event.Action,
	}

	lines, err := h.formatter.Format(r.Context(), eventType, event)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrTypeValidation) {
			http.Error(w, "incomplete payload", http.StatusBadRequest)
			return
		}
		h.logger.Warn("Dropped notification",
			logging.String("event", eventType),
			logging.String("repository", event.Repository.Name),
			logging.Err(err))
		h.writeJSON(w, http.StatusOK, response)
		return
	}

	if len(lines) > 0 {
		h.chat.EnsureNick()
		response.Delivered = h.router.Deliver(event.Repository.Name, lines)
	}

	h.logger.Info("Processed webhook",
		logging.String("event", eventType),
		logging.String("repository", event.Repository.Name),
		logging.String("sender", event.Sender.Login),
		logging.Int("delivered", response.Delivered))
	h.writeJSON(w, http.StatusOK, response)
}
