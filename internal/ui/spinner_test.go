package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpinnerSilentOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf)

	s.Start("Fetching page 1...")
	s.Update("Page 1: 20 products so far")
	s.Stop()
	s.Stop()

	assert.Empty(t, buf.String())
	assert.Equal(t, "Page 1: 20 products so far", s.Message())
}

func TestSpinnerRunsWhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	s := &Spinner{w: &buf, enabled: true}

	s.Start("working")
	s.Stop()

	// Stop always clears the line, even if no frame was drawn yet.
	assert.Contains(t, buf.String(), "\r\033[K")
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
