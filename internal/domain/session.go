package domain

import (
	"fmt"
	"time"
)

// DateKeyLayout is the format used for session date keys.
const DateKeyLayout = "2006-01-02"

// SessionKey identifies one user's conversation for a single calendar day.
// History, summaries, and the clear-chat operation are all keyed by the pair;
// keying by date alone would leak history across users.
type SessionKey struct {
	UserID  string `json:"user_id"`
	DateKey string `json:"date_key"`
}

// NewSessionKey builds a key for the given user and day.
func NewSessionKey(userID string, t time.Time) SessionKey {
	return SessionKey{UserID: userID, DateKey: t.Format(DateKeyLayout)}
}

// Validate checks that both parts of the key are present and the date key
// is a well-formed YYYY-MM-DD string.
func (k SessionKey) Validate() error {
	if k.UserID == "" {
		return fmt.Errorf("session key: user id cannot be empty")
	}
	if _, err := time.Parse(DateKeyLayout, k.DateKey); err != nil {
		return fmt.Errorf("session key: invalid date key %q: %w", k.DateKey, err)
	}
	return nil
}
