package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/maiya-app/maiya/internal/domain"
	"github.com/maiya-app/maiya/internal/provider"
	"github.com/maiya-app/maiya/internal/store"
)

// Sentinel errors for assistant operations.
var (
	// ErrNoUserMessage is returned when a request carries no user message.
	ErrNoUserMessage = errors.New("conversation contains no user message")
	// ErrNoHistory is returned when summarization finds nothing to recap.
	ErrNoHistory = errors.New("no chat history for this session")
)

// ChatInput is one routed user interaction.
type ChatInput struct {
	// SessionID scopes the routing state. For HTTP clients this is the
	// user id; websocket connections use a per-connection id.
	SessionID string
	// UserID keys persistence. Empty disables history persistence.
	UserID string
	// Name and Niche personalize the system prompt. When empty, the
	// stored profile (if any) supplies them.
	Name  string
	Niche string
	// Messages is the full conversation history, last message from the user.
	Messages []domain.Message
}

// Reply is the assistant's response to one user message.
type Reply struct {
	// Text is always non-empty.
	Text string
	// ImageURL is set when an image was generated.
	ImageURL string
	// Fallback is true when the layout fallback suppressed a generation call.
	Fallback bool
}

// Service orchestrates routing, provider calls, and persistence.
type Service struct {
	provider provider.Client
	repo     store.Repository
	sessions *SessionManager
	router   *Router
}

// NewService creates the assistant service with the default routing rules.
func NewService(p provider.Client, repo store.Repository, sessions *SessionManager) *Service {
	return NewServiceWithRules(p, repo, sessions, DefaultRules())
}

// NewServiceWithRules creates the assistant service with a custom rule table.
func NewServiceWithRules(p provider.Client, repo store.Repository, sessions *SessionManager, rules Rules) *Service {
	return &Service{
		provider: p,
		repo:     repo,
		sessions: sessions,
		router:   NewRouter(rules),
	}
}

// Sessions exposes the session manager for lifecycle management.
func (s *Service) Sessions() *SessionManager {
	return s.sessions
}

// HandleMessage routes the latest user message and produces a reply.
//
// The routing state transition happens before any provider call, so the
// pending-image state is cleared regardless of call outcome. Provider errors
// propagate to the caller, who surfaces ApologyMessage; by then the session
// is already back in StateIdle.
func (s *Service) HandleMessage(ctx context.Context, in ChatInput) (*Reply, error) {
	latest := domain.LastUserMessage(in.Messages)
	if latest == "" {
		return nil, ErrNoUserMessage
	}

	state := s.sessions.State(in.SessionID)
	decision := s.router.Route(state, latest)
	s.sessions.SetState(in.SessionID, decision.Next)

	reply, err := s.execute(ctx, in, decision)
	if err != nil {
		return nil, err
	}

	s.persistHistory(ctx, in, reply)
	return reply, nil
}

func (s *Service) execute(ctx context.Context, in ChatInput, decision Decision) (*Reply, error) {
	switch decision.Action {
	case ActionChat:
		name, niche := s.resolvePersona(ctx, in)
		text, err := s.provider.Complete(ctx, BuildPersonaPrompt(name, niche), in.Messages)
		if err != nil {
			return nil, fmt.Errorf("chat completion: %w", err)
		}
		return &Reply{Text: text}, nil

	case ActionGenerateImage:
		url, err := s.provider.GenerateImage(ctx, decision.Prompt)
		if err != nil {
			return nil, fmt.Errorf("image generation: %w", err)
		}
		return &Reply{
			Text:     "Here it is! ✨ Want me to tweak the style or try a different take?",
			ImageURL: url,
		}, nil

	case ActionVisualFallback:
		return &Reply{Text: decision.Reply, Fallback: true}, nil

	default:
		// Static replies: clarifying question, stock redirect.
		return &Reply{Text: decision.Reply}, nil
	}
}

// resolvePersona prefers the request's name/niche; when missing, it falls
// back to the stored profile. A profile read failure only costs the
// personalization, never the reply.
func (s *Service) resolvePersona(ctx context.Context, in ChatInput) (string, string) {
	if in.Name != "" || in.UserID == "" {
		return in.Name, in.Niche
	}
	profile, err := s.repo.GetProfile(ctx, in.UserID)
	if err != nil {
		slog.Warn("Failed to load profile for persona", "user_id", in.UserID, "error", err)
		return in.Name, in.Niche
	}
	if profile == nil {
		return in.Name, in.Niche
	}
	return profile.Name, profile.Niche
}

// persistHistory overwrites today's history with the conversation plus the
// new assistant reply. Persistence failures are logged and swallowed: the
// user still gets their reply.
func (s *Service) persistHistory(ctx context.Context, in ChatInput, reply *Reply) {
	if in.UserID == "" {
		return
	}

	content := reply.Text
	if reply.ImageURL != "" {
		content = reply.ImageURL
	}
	history := append(append([]domain.Message{}, in.Messages...), domain.Message{
		Role:      domain.RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	})

	key := domain.NewSessionKey(in.UserID, time.Now())
	if err := s.repo.SaveHistory(ctx, key, history); err != nil {
		slog.Error("Failed to persist chat history", "user_id", in.UserID, "date_key", key.DateKey, "error", err)
	}
}

// Summarize regenerates the recap for one session and overwrites the stored
// record. Returns ErrNoHistory when there is nothing to recap.
func (s *Service) Summarize(ctx context.Context, key domain.SessionKey) (string, error) {
	messages, err := s.repo.LoadHistory(ctx, key)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}
	if len(messages) == 0 {
		return "", ErrNoHistory
	}

	text, err := s.provider.Complete(ctx, summaryInstruction, messages)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}

	if err := s.repo.SaveSummary(ctx, key, text); err != nil {
		return "", fmt.Errorf("save summary: %w", err)
	}
	return text, nil
}
