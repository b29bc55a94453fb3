package irc

import (
	"strings"

	"commit-relay/internal/message"
)

// mIRC control codes. Color codes are written with two digits so that
// styled text starting with a digit cannot be read as part of the code.
const (
	codeBold      = "\x02"
	codeUnderline = "\x1f"
	codeColor     = "\x03"
	codeReset     = "\x0f"

	colorPurple = "06"
	colorAqua   = "11"
	colorGrey   = "14"
)

// encodeLine renders a styled line into raw message text. Every styled
// span ends with a reset so formatting never bleeds into the next span.
func encodeLine(line message.Line) string {
	var b strings.Builder

	for _, span := range line {
		if span.Style == 0 {
			b.WriteString(span.Text)
			continue
		}

		if span.Style.Has(message.Bold) {
			b.WriteString(codeBold)
		}
		if span.Style.Has(message.Underline) {
			b.WriteString(codeUnderline)
		}
		switch {
		case span.Style.Has(message.Purple):
			b.WriteString(codeColor + colorPurple)
		case span.Style.Has(message.Aqua):
			b.WriteString(codeColor + colorAqua)
		case span.Style.Has(message.Grey):
			b.WriteString(codeColor + colorGrey)
		}

		b.WriteString(span.Text)
		b.WriteString(codeReset)
	}

	return b.String()
}
