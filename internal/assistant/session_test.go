package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionManagerDefaultsToIdle(t *testing.T) {
	sm := NewSessionManager()
	defer sm.Shutdown()

	assert.Equal(t, StateIdle, sm.State("unknown"))
	assert.Equal(t, 0, sm.Count())
}

func TestSessionManagerSetAndGet(t *testing.T) {
	sm := NewSessionManager()
	defer sm.Shutdown()

	sm.SetState("a", StateAwaitingImageDescription)
	sm.SetState("b", StateIdle)

	assert.Equal(t, StateAwaitingImageDescription, sm.State("a"))
	assert.Equal(t, StateIdle, sm.State("b"))
	assert.Equal(t, 2, sm.Count())
}

func TestSessionManagerDelete(t *testing.T) {
	sm := NewSessionManager()
	defer sm.Shutdown()

	sm.SetState("a", StateAwaitingImageDescription)
	sm.Delete("a")

	assert.Equal(t, StateIdle, sm.State("a"))
	assert.Equal(t, 0, sm.Count())
}

// Sessions are isolated: one session's pending-image state never leaks
// into another.
func TestSessionManagerIsolation(t *testing.T) {
	sm := NewSessionManager()
	defer sm.Shutdown()

	sm.SetState("a", StateAwaitingImageDescription)
	assert.Equal(t, StateIdle, sm.State("b"))
}
