package assistant

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	// sessionInactivityTimeout is how long a session keeps its routing
	// state with no activity before it is dropped.
	sessionInactivityTimeout = 24 * time.Hour

	// sessionCleanupInterval is how often stale sessions are swept.
	sessionCleanupInterval = 1 * time.Hour
)

type sessionEntry struct {
	state        State
	lastActivity time.Time
}

// SessionManager holds per-session routing state. Each client session owns
// exactly one State value; there is never more than one pending-image flag
// per session. Safe for concurrent use.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry

	cancelCleanup context.CancelFunc
	cleanupDone   chan struct{}
}

// NewSessionManager creates a session manager and starts its background
// cleanup goroutine. Call Shutdown to stop it.
func NewSessionManager() *SessionManager {
	ctx, cancel := context.WithCancel(context.Background())
	sm := &SessionManager{
		sessions:      make(map[string]*sessionEntry),
		cancelCleanup: cancel,
		cleanupDone:   make(chan struct{}),
	}
	go sm.cleanupLoop(ctx)
	return sm
}

// State returns the routing state for the session, defaulting to StateIdle
// for unknown sessions.
func (sm *SessionManager) State(sessionID string) State {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if e, ok := sm.sessions[sessionID]; ok {
		e.lastActivity = time.Now()
		return e.state
	}
	return StateIdle
}

// SetState records the routing state for the session.
func (sm *SessionManager) SetState(sessionID string, state State) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if e, ok := sm.sessions[sessionID]; ok {
		e.state = state
		e.lastActivity = time.Now()
		return
	}
	sm.sessions[sessionID] = &sessionEntry{state: state, lastActivity: time.Now()}
}

// Delete drops a session's state. No-op for unknown sessions.
func (sm *SessionManager) Delete(sessionID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, sessionID)
}

// Count returns the number of tracked sessions.
func (sm *SessionManager) Count() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.sessions)
}

// Shutdown stops the cleanup goroutine and waits for it to exit.
func (sm *SessionManager) Shutdown() {
	sm.cancelCleanup()
	<-sm.cleanupDone
}

func (sm *SessionManager) cleanupLoop(ctx context.Context) {
	defer close(sm.cleanupDone)

	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sm.cleanupInactive()
		}
	}
}

func (sm *SessionManager) cleanupInactive() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := time.Now()
	removed := 0
	for id, e := range sm.sessions {
		if now.Sub(e.lastActivity) > sessionInactivityTimeout {
			delete(sm.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		slog.Debug("Cleaned up inactive sessions", "removed", removed, "remaining", len(sm.sessions))
	}
}
