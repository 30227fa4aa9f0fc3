package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/maiya-app/maiya/internal/assistant"
	"github.com/maiya-app/maiya/internal/domain"
	"github.com/maiya-app/maiya/internal/identity"
)

type chatRequest struct {
	Messages []domain.Message `json:"messages"`
	Name     string           `json:"name"`
	Niche    string           `json:"niche"`
}

type chatResponse struct {
	Reply    string `json:"reply"`
	ImageURL string `json:"imageUrl,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
}

// Chat handles POST /api/maiyabot: routes the latest user message through
// the assistant and returns Maiya's reply. Provider failures surface as a
// 500 whose body still carries an in-character apology.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Messages) == 0 {
		Error(w, http.StatusBadRequest, "messages cannot be empty")
		return
	}
	if err := domain.ValidateMessages(req.Messages); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	uid := identity.UserIDFromContext(r.Context())
	reply, err := h.svc.HandleMessage(r.Context(), assistant.ChatInput{
		SessionID: uid,
		UserID:    uid,
		Name:      req.Name,
		Niche:     req.Niche,
		Messages:  req.Messages,
	})
	if err != nil {
		if errors.Is(err, assistant.ErrNoUserMessage) {
			Error(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("Chat request failed", "user_id", uid, "error", err)
		JSON(w, http.StatusInternalServerError, chatResponse{Reply: assistant.ApologyMessage})
		return
	}

	JSON(w, http.StatusOK, chatResponse{
		Reply:    reply.Text,
		ImageURL: reply.ImageURL,
		Fallback: reply.Fallback,
	})
}
