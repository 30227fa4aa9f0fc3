// Package api provides HTTP handlers for the Maiya API.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/maiya-app/maiya/internal/assistant"
	"github.com/maiya-app/maiya/internal/domain"
	"github.com/maiya-app/maiya/internal/identity"
	"github.com/maiya-app/maiya/internal/provider"
	"github.com/maiya-app/maiya/internal/store"
)

// Handler serves the Maiya JSON API.
type Handler struct {
	repo     store.Repository
	svc      *assistant.Service
	provider provider.Client
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Repository, svc *assistant.Service, p provider.Client) *Handler {
	return &Handler{
		repo:     repo,
		svc:      svc,
		provider: p,
	}
}

// RegisterRoutes mounts all API routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/maiyabot", h.Chat)
	r.Post("/api/generate-image", h.GenerateImage)
	r.Post("/api/profile", h.SaveProfile)
	r.Get("/api/profile", h.GetProfile)
	r.Get("/api/history", h.GetHistory)
	r.Post("/api/history", h.SaveHistory)
	r.Delete("/api/history", h.ClearHistory)
	r.Post("/api/summary", h.CreateSummary)
	r.Get("/api/summary", h.GetSummary)
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// userID resolves the effective user id: explicit value first, then the
// identity middleware's resolution.
func userID(r *http.Request, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return identity.UserIDFromContext(r.Context())
}

// sessionKeyFromQuery builds the (user, date) key from query params,
// defaulting to today.
func sessionKeyFromQuery(r *http.Request) domain.SessionKey {
	dateKey := r.URL.Query().Get("date")
	if dateKey == "" {
		dateKey = time.Now().Format(domain.DateKeyLayout)
	}
	return domain.SessionKey{
		UserID:  userID(r, r.URL.Query().Get("user_id")),
		DateKey: dateKey,
	}
}
