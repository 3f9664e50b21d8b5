package handlers

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", maxErrorDetail))
	assert.Equal(t, "abc", truncate("abcdef", 3))

	long := strings.Repeat("é", maxErrorDetail+5)
	got := truncate(long, maxErrorDetail)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, maxErrorDetail, utf8.RuneCountInString(got))

	mixed := "x" + strings.Repeat("⚠️", 40)
	assert.True(t, utf8.ValidString(truncate(mixed, maxErrorDetail)))
}
