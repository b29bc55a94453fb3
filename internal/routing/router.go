package routing

import (
	"sync"

	"commit-relay/internal/common/logging"
	"commit-relay/internal/message"
)

// Sender delivers one formatted line to a channel. Implemented by the
// chat session.
type Sender interface {
	Send(channel string, line message.Line) error
}

// ChannelRouter resolves destination channels per repository and hands
// formatted lines to the Sender. It is safe for concurrent use.
type ChannelRouter struct {
	sender Sender
	logger logging.Logger

	// mu guards the channel list and filter table, which a config
	// reload swaps wholesale.
	mu       sync.RWMutex
	channels []string
	filters  map[string]map[string]bool

	// deliverMu keeps one event's lines contiguous on the wire.
	deliverMu sync.Mutex
}

// NewChannelRouter creates a router over the configured channel list and
// per-channel repository filters.
func NewChannelRouter(sender Sender, channels []string, filters map[string][]string, logger logging.Logger) *ChannelRouter {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	r := &ChannelRouter{
		sender: sender,
		logger: logger,
	}
	r.install(channels, filters)
	return r
}

// install replaces the routing tables with copies of the arguments.
// Callers other than the constructor must hold mu.
func (r *ChannelRouter) install(channels []string, filters map[string][]string) {
	r.channels = append([]string(nil), channels...)

	r.filters = make(map[string]map[string]bool, len(filters))
	for channel, repos := range filters {
		allowed := make(map[string]bool, len(repos))
		for _, repo := range repos {
			allowed[repo] = true
		}
		r.filters[channel] = allowed
	}
}

// Route returns the ordered subset of configured channels that accept
// the repository.
func (r *ChannelRouter) Route(repo string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var routed []string
	for _, channel := range r.channels {
		if allowed, ok := r.filters[channel]; ok && !allowed[repo] {
			continue
		}
		routed = append(routed, channel)
	}
	return routed
}

// Deliver sends every line to every routed channel, preserving formatter
// order. Concurrent deliveries are serialized so a push summary and its
// commit lines never interleave with another event's lines. Send failures
// are logged and skipped; connectivity is the session's concern. Returns
// the number of lines that went out.
func (r *ChannelRouter) Deliver(repo string, lines []message.Line) int {
	if len(lines) == 0 {
		return 0
	}

	r.deliverMu.Lock()
	defer r.deliverMu.Unlock()

	delivered := 0
	for _, channel := range r.Route(repo) {
		for _, line := range lines {
			if err := r.sender.Send(channel, line); err != nil {
				r.logger.Warn("Dropped line",
					logging.Field{Key: "channel", Value: channel},
					logging.Err(err),
				)
				continue
			}
			delivered++
		}
	}

	r.logger.Debug("Delivered notification",
		logging.Field{Key: "repository", Value: repo},
		logging.Field{Key: "lines", Value: delivered},
	)
	return delivered
}

// Update swaps in a reloaded channel list and filter table. It returns
// the diff against the previous channel list: channels to join and
// channels to part, for the session to apply.
func (r *ChannelRouter) Update(channels []string, filters map[string][]string) (join, part []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.channels
	r.install(channels, filters)

	join = subtract(r.channels, previous)
	part = subtract(previous, r.channels)
	return join, part
}

// subtract returns the members of a not present in b, in a's order.
func subtract(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, s := range b {
		inB[s] = true
	}

	var out []string
	for _, s := range a {
		if !inB[s] {
			out = append(out, s)
		}
	}
	return out
}
