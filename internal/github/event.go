// Package github defines the webhook payload subset the relay reads and
// decodes inbound request bodies into it.
package github

import (
	"strings"

	"commit-relay/internal/common/errors"
)

// EventHeader is the request header GitHub uses to name the event type.
const EventHeader = "X-GitHub-Event"

// Event types delivered in the X-GitHub-Event header that the relay acts on.
// Anything else is acknowledged and dropped.
const (
	EventPush        = "push"
	EventPullRequest = "pull_request"
)

// Event is the slice of a webhook payload the relay cares about. GitHub
// sends far more; unknown fields are ignored during decoding.
type Event struct {
	Action     string     `json:"action"`
	Number     int        `json:"number"`
	Repository Repository `json:"repository"`
	Sender     Sender     `json:"sender"`

	// Pull request events only.
	PullRequest *PullRequest `json:"pull_request"`

	// Push events only.
	Ref     string   `json:"ref"`
	Forced  bool     `json:"forced"`
	Compare string   `json:"compare"`
	Commits []Commit `json:"commits"`
}

// Repository identifies the repository an event belongs to.
type Repository struct {
	Name string `json:"name"`
}

// Sender identifies the user that triggered an event.
type Sender struct {
	Login string `json:"login"`
}

// PullRequest carries the pull request fields used in notifications.
type PullRequest struct {
	HTMLURL string `json:"html_url"`
	Title   string `json:"title"`
	Base    Branch `json:"base"`
	Head    Branch `json:"head"`
}

// Branch is a pull request endpoint branch.
type Branch struct {
	Ref string `json:"ref"`
}

// Commit is one entry of a push event's commit list.
type Commit struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Author  Author `json:"author"`
}

// Author identifies a commit author.
type Author struct {
	Username string `json:"username"`
}

// Validate checks the fields every event must carry regardless of type.
func (e *Event) Validate() error {
	if e.Repository.Name == "" {
		return errors.ValidationError("payload missing repository.name")
	}
	if e.Sender.Login == "" {
		return errors.ValidationError("payload missing sender.login")
	}
	return nil
}

// BranchName derives the branch a push went to by stripping one leading
// refs/heads/ from the ref. Refs without the prefix pass through as-is.
func (e *Event) BranchName() string {
	return strings.TrimPrefix(e.Ref, "refs/heads/")
}
