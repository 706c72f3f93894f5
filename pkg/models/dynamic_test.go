package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTimeoutRequiresHostOrigin(t *testing.T) {
	kill := &ExceptionInfo{Type: "TimeoutError", Message: "deadline", FromHost: true}
	assert.True(t, kill.IsTimeout())

	raised := &ExceptionInfo{Type: "TimeoutError", Message: "socket timed out", Line: 3}
	assert.False(t, raised.IsTimeout(), "a program-raised TimeoutError is not a deadline kill")

	var nilExc *ExceptionInfo
	assert.False(t, nilExc.IsTimeout())
}
