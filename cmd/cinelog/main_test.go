package main

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short", "Alien", 10, "Alien"},
		{"exact", "Heat", 4, "Heat"},
		{"ascii", "The Good, the Bad and the Ugly", 10, "The Goo..."},
		{"newlines", "line one\nline two", 40, "line one line two"},
		{"japanese", "千と千尋の神隠し スペシャル版", 10, "千と千尋の神隠..."},
		{"japanese fits", "七人の侍", 4, "七人の侍"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, utf8.RuneCountInString(got), tt.max)
		})
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0123abcd", shortID("0123abcd-ef45-6789"))
	assert.Equal(t, "abc", shortID("abc"))
}
