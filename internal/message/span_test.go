package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyle_Has(t *testing.T) {
	assert.True(t, Bold.Has(Bold))
	assert.True(t, (Aqua | Underline).Has(Underline))
	assert.True(t, (Aqua | Underline).Has(Aqua))

	assert.False(t, Bold.Has(Underline))
	assert.False(t, Style(0).Has(Bold))
	assert.False(t, Purple.Has(Grey))
}

func TestLine_Text(t *testing.T) {
	assert.Equal(t, "", Line{}.Text())

	line := Line{
		{Text: "["},
		{Text: "demo", Style: Purple},
		{Text: "] hello"},
	}
	assert.Equal(t, "[demo] hello", line.Text())
}
