package ql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusDecoding(t *testing.T) {
	var s Status
	s[4] = 0x39
	s[8] = 0x01
	s[9] = 0x10
	s[10] = 62
	s[11] = 0x0a
	s[18] = byte(StatusTypeErrorOccurred)

	assert.Equal(t, "QL-810W", s.Model())
	assert.Equal(t, 62, s.MediaWidthMM())
	assert.Equal(t, 0, s.MediaLengthMM())
	assert.Equal(t, StatusTypeErrorOccurred, s.Type())
	assert.Equal(t, []string{"no media", "cover open"}, s.Errors())

	dump := s.String()
	assert.Contains(t, dump, "model: QL-810W\n")
	assert.Contains(t, dump, "error 2: cover open\n")
	assert.Contains(t, dump, "media: continuous length tape\n")
	assert.Contains(t, dump, "status type: error occurred\n")
}
