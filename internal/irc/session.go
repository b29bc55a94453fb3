// Package irc maintains the chat connection and renders styled lines into
// the mIRC control codes the wire expects. It owns channel membership:
// channels are joined on every successful registration, so a reconnect
// restores the same state the process had before the drop.
package irc

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ergochat/irc-go/ircevent"
	"github.com/ergochat/irc-go/ircmsg"

	"commit-relay/internal/common/errors"
	"commit-relay/internal/common/logging"
	"commit-relay/internal/common/utils"
	"commit-relay/internal/config"
	"commit-relay/internal/message"
)

// Session wraps a single client connection to the chat server.
type Session struct {
	conn   *ircevent.Connection
	nick   string
	logger logging.Logger

	mu       sync.Mutex
	channels []string

	ready atomic.Bool
}

// NewSession builds a session from the chat configuration. The connection
// is not opened until Run is called.
func NewSession(cfg config.ChatConfig, logger logging.Logger) *Session {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	conn := &ircevent.Connection{
		Server:        cfg.Addr(),
		Nick:          cfg.Nick,
		User:          cfg.Nick,
		RealName:      cfg.Nick,
		Password:      cfg.Password,
		UseTLS:        cfg.TLS,
		SASLLogin:     cfg.SASLLogin,
		SASLPassword:  cfg.SASLPassword,
		QuitMessage:   "shutting down",
		ReconnectFreq: 30 * time.Second,
		KeepAlive:     4 * time.Minute,
		Timeout:       time.Minute,
		Log:           logging.StdLogger(logger),
	}

	s := &Session{
		conn:     conn,
		nick:     cfg.Nick,
		channels: append([]string(nil), cfg.Channels...),
		logger:   logger,
	}

	conn.AddConnectCallback(s.handleConnect)
	conn.AddDisconnectCallback(s.handleDisconnect)
	conn.AddCallback("KICK", s.handleKick)

	return s
}

// Run connects to the chat server and processes events until ctx is
// cancelled or Close is called. The initial connection is retried with
// backoff; once established, reconnects are handled internally.
func (s *Session) Run(ctx context.Context) error {
	retryConfig := utils.RetryConfig{
		MaxAttempts:   5,
		InitialDelay:  2 * time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2.0,
		JitterFactor:  0.1,
	}

	err := utils.RetryWithBackoff(ctx, retryConfig, func() error {
		if err := s.conn.Connect(); err != nil {
			s.logger.Warn("Chat connection attempt failed",
				logging.String("server", s.conn.Server),
				logging.Err(err))
			return err
		}
		return nil
	})
	if err != nil {
		return errors.ConnectionError("failed to connect to chat server", err)
	}

	go func() {
		<-ctx.Done()
		s.conn.Quit()
	}()

	s.conn.Loop()
	return nil
}

// Close disconnects from the chat server and stops the event loop.
func (s *Session) Close() {
	s.conn.Quit()
}

// Send delivers one rendered line to a channel. It fails fast while the
// connection is down so callers can skip a whole notification instead of
// queueing half of one.
func (s *Session) Send(channel string, line message.Line) error {
	if !s.ready.Load() {
		return errors.ConnectionError("not connected to chat server", nil)
	}

	if err := s.conn.Privmsg(channel, encodeLine(line)); err != nil {
		return errors.ConnectionError("failed to send message", err)
	}
	return nil
}

// EnsureNick asks the server for the configured nick when the current one
// differs, which happens when a reconnect registered under an alternative.
func (s *Session) EnsureNick() {
	if !s.ready.Load() {
		return
	}

	current := s.conn.CurrentNick()
	if current == s.nick {
		return
	}

	s.logger.Info("Reclaiming nick",
		logging.String("current", current),
		logging.String("want", s.nick))
	if err := s.conn.Send("NICK", s.nick); err != nil {
		s.logger.Warn("Failed to reclaim nick", logging.Err(err))
	}
}

// Join adds a channel to the session. The join is sent immediately when
// connected and repeated on every reconnect.
func (s *Session) Join(channel string) {
	s.mu.Lock()
	for _, existing := range s.channels {
		if existing == channel {
			s.mu.Unlock()
			return
		}
	}
	s.channels = append(s.channels, channel)
	s.mu.Unlock()

	if !s.ready.Load() {
		return
	}
	if err := s.conn.Join(channel); err != nil {
		s.logger.Warn("Failed to join channel",
			logging.String("channel", channel),
			logging.Err(err))
	}
}

// Part removes a channel from the session and leaves it on the server.
func (s *Session) Part(channel string) {
	s.mu.Lock()
	found := false
	for i, existing := range s.channels {
		if existing == channel {
			s.channels = append(s.channels[:i], s.channels[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found || !s.ready.Load() {
		return
	}
	if err := s.conn.Part(channel); err != nil {
		s.logger.Warn("Failed to part channel",
			logging.String("channel", channel),
			logging.Err(err))
	}
}

// Channels returns the channels the session joins on connect.
func (s *Session) Channels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.channels...)
}

// Health reports whether the session currently holds a registered
// connection.
func (s *Session) Health() error {
	if !s.ready.Load() {
		return errors.ConnectionError("not connected to chat server", nil)
	}
	return nil
}

func (s *Session) handleConnect(e ircmsg.Message) {
	s.ready.Store(true)
	s.logger.Info("Connected to chat server",
		logging.String("server", s.conn.Server),
		logging.String("nick", s.conn.CurrentNick()))

	s.mu.Lock()
	channels := append([]string(nil), s.channels...)
	s.mu.Unlock()

	for _, channel := range channels {
		if err := s.conn.Join(channel); err != nil {
			s.logger.Warn("Failed to join channel",
				logging.String("channel", channel),
				logging.Err(err))
		}
	}
}

func (s *Session) handleDisconnect(e ircmsg.Message) {
	s.ready.Store(false)
	s.logger.Warn("Disconnected from chat server",
		logging.String("server", s.conn.Server))
}

// handleKick rejoins a channel when this session's nick is the one kicked.
func (s *Session) handleKick(e ircmsg.Message) {
	if len(e.Params) < 2 || e.Params[1] != s.conn.CurrentNick() {
		return
	}

	channel := e.Params[0]
	s.logger.Warn("Kicked from channel, rejoining",
		logging.String("channel", channel))
	if err := s.conn.Join(channel); err != nil {
		s.logger.Warn("Failed to rejoin channel",
			logging.String("channel", channel),
			logging.Err(err))
	}
}
