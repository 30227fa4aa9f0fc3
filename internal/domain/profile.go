package domain

import (
	"fmt"
	"time"
)

// Profile holds the per-user personalization data interpolated into
// Maiya's system prompt: the user's display name and their business niche.
type Profile struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Niche     string    `json:"niche"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks required profile fields.
func (p *Profile) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("profile: user id cannot be empty")
	}
	if p.Name == "" {
		return fmt.Errorf("profile: name cannot be empty")
	}
	return nil
}

// Summary is a short natural-language recap of one day's session.
// It is regenerated and overwritten whenever a summarization call succeeds.
type Summary struct {
	UserID    string    `json:"user_id"`
	DateKey   string    `json:"date_key"`
	Summary   string    `json:"summary"`
	UpdatedAt time.Time `json:"updated_at"`
}
