// Package message renders webhook events into styled chat lines.
//
// Styling is carried as abstract markers on text spans; translating them
// into a transport's escape codes is the chat session's job. The formatter
// itself never emits wire encoding.
package message

import "strings"

// Style is a bitmask of presentation markers attached to a span.
type Style uint8

const (
	Bold Style = 1 << iota
	Underline
	Purple
	Aqua
	Grey
)

// Has reports whether s carries the given marker.
func (s Style) Has(marker Style) bool {
	return s&marker != 0
}

// Span is a run of text with a uniform style set.
type Span struct {
	Text  string
	Style Style
}

// Line is one chat message as an ordered list of spans.
type Line []Span

// Text returns the line's content with styling stripped.
func (l Line) Text() string {
	var b strings.Builder
	for _, span := range l {
		b.WriteString(span.Text)
	}
	return b.String()
}
