// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/maiya-app/maiya/internal/domain"
)

// Repository is the persistence facade over profiles, chat history, and
// session summaries. All history and summary operations are keyed by
// (user, date); writes are full overwrites with last-writer-wins semantics.
type Repository interface {
	// LoadHistory returns the message sequence for the session, or nil if
	// no record exists.
	LoadHistory(ctx context.Context, key domain.SessionKey) ([]domain.Message, error)

	// SaveHistory overwrites the session's message sequence. The store
	// performs no merging: the latest call wins.
	SaveHistory(ctx context.Context, key domain.SessionKey, messages []domain.Message) error

	// DeleteHistory removes the entire keyed record ("clear chat").
	DeleteHistory(ctx context.Context, key domain.SessionKey) error

	// GetProfile returns the user's profile, or nil if none exists.
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)

	// UpsertProfile creates or updates a profile record.
	UpsertProfile(ctx context.Context, profile *domain.Profile) error

	// GetSummary returns the stored session recap, or nil if none exists.
	GetSummary(ctx context.Context, key domain.SessionKey) (*domain.Summary, error)

	// SaveSummary overwrites the session recap.
	SaveSummary(ctx context.Context, key domain.SessionKey, text string) error

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
