package message

import (
	"context"
	"strconv"
	"strings"

	"commit-relay/internal/common/errors"
	"commit-relay/internal/common/logging"
	"commit-relay/internal/github"
)

// commitLineLimit caps the per-commit detail lines under a push summary.
const commitLineLimit = 3

// Pull request actions that produce a notification. Everything else is
// acknowledged and dropped.
var notifiedActions = map[string]bool{
	"opened":   true,
	"closed":   true,
	"reopened": true,
}

// Shortener produces short links for notification URLs.
type Shortener interface {
	Shorten(ctx context.Context, longURL string) (string, error)
}

// Formatter maps parsed webhook events to styled chat lines.
type Formatter struct {
	shortener Shortener
	logger    logging.Logger
}

// NewFormatter creates a new event formatter.
func NewFormatter(shortener Shortener, logger logging.Logger) *Formatter {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	return &Formatter{
		shortener: shortener,
		logger:    logger,
	}
}

// Format renders the event into zero or more lines. Event types and
// pull request actions outside the notified set return (nil, nil).
// A shortening failure suppresses the whole notification: no lines and
// the shortener's typed error, never a partial message.
func (f *Formatter) Format(ctx context.Context, eventType string, event *github.Event) ([]Line, error) {
	switch eventType {
	case github.EventPullRequest:
		return f.pullRequest(ctx, event)
	case github.EventPush:
		return f.push(ctx, event)
	default:
		f.logger.Debug("Ignoring event type", logging.Field{Key: "event_type", Value: eventType})
		return nil, nil
	}
}

func (f *Formatter) pullRequest(ctx context.Context, event *github.Event) ([]Line, error) {
	if !notifiedActions[event.Action] {
		f.logger.Debug("Ignoring pull request action", logging.Field{Key: "action", Value: event.Action})
		return nil, nil
	}

	if event.PullRequest == nil {
		return nil, errors.ValidationError("pull_request event without pull_request object")
	}

	short, err := f.shortener.Shorten(ctx, event.PullRequest.HTMLURL)
	if err != nil {
		return nil, err
	}

	line := Line{
		{Text: "["},
		{Text: event.Repository.Name, Style: Purple},
		{Text: "] "},
		{Text: event.Sender.Login},
		{Text: " "},
		{Text: event.Action, Style: Bold},
		{Text: " pull request #"},
		{Text: strconv.Itoa(event.Number), Style: Bold},
		{Text: ": "},
		{Text: event.PullRequest.Title},
		{Text: " ("},
		{Text: event.PullRequest.Base.Ref + "..." + event.PullRequest.Head.Ref, Style: Purple},
		{Text: ") "},
		{Text: short, Style: Aqua | Underline},
	}

	return []Line{line}, nil
}

func (f *Formatter) push(ctx context.Context, event *github.Event) ([]Line, error) {
	short, err := f.shortener.Shorten(ctx, event.Compare)
	if err != nil {
		return nil, err
	}

	branch := event.BranchName()

	verb := "pushed"
	if event.Forced {
		verb = "force pushed"
	}

	lines := []Line{{
		{Text: "["},
		{Text: event.Repository.Name, Style: Purple},
		{Text: "] "},
		{Text: event.Sender.Login},
		{Text: " "},
		{Text: verb},
		{Text: " "},
		{Text: strconv.Itoa(len(event.Commits)), Style: Bold},
		{Text: " new commits to "},
		{Text: branch, Style: Purple},
		{Text: ": "},
		{Text: short, Style: Aqua | Underline},
	}}

	detailed := len(event.Commits)
	if detailed > commitLineLimit {
		detailed = commitLineLimit
	}

	for _, commit := range event.Commits[:detailed] {
		lines = append(lines, Line{
			{Text: event.Repository.Name, Style: Purple},
			{Text: "/"},
			{Text: branch, Style: Purple},
			{Text: " "},
			{Text: shortID(commit.ID), Style: Grey},
			{Text: " "},
			{Text: commit.Author.Username},
			{Text: ": "},
			{Text: firstLine(commit.Message)},
		})
	}

	return lines, nil
}

// shortID truncates a commit id to the conventional 7 characters.
func shortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}

// firstLine returns the text before the first newline, with a trailing
// carriage return trimmed.
func firstLine(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	return strings.TrimSuffix(line, "\r")
}
