// Package routing decides which channels receive a repository's
// notifications and delivers formatted lines to them.
//
// Channel selection follows a three-valued filter rule:
//
//   - a channel with no filter entry receives every repository
//   - a channel with a filter entry receives only the repositories listed
//   - a channel with an empty filter entry receives nothing
//
// Filter entries for channels outside the configured channel list are
// inert. Delivery preserves formatter order, and one event's lines go out
// as a contiguous block even under concurrent webhook requests.
package routing
