package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/maiya-app/maiya/internal/domain"
)

type historyRequest struct {
	UserID   string           `json:"user_id"`
	Date     string           `json:"date"`
	Messages []domain.Message `json:"messages"`
}

type historyResponse struct {
	Messages []domain.Message `json:"messages"`
}

// GetHistory handles GET /api/history?date=YYYY-MM-DD (defaults to today).
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	key := sessionKeyFromQuery(r)
	if err := key.Validate(); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	messages, err := h.repo.LoadHistory(r.Context(), key)
	if err != nil {
		slog.Error("Failed to load history", "user_id", key.UserID, "date_key", key.DateKey, "error", err)
		Error(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if messages == nil {
		messages = []domain.Message{}
	}

	JSON(w, http.StatusOK, historyResponse{Messages: messages})
}

// SaveHistory handles POST /api/history: full overwrite of the day's
// message sequence. Last writer wins; the store performs no merging.
func (h *Handler) SaveHistory(w http.ResponseWriter, r *http.Request) {
	var req historyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := domain.ValidateMessages(req.Messages); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	dateKey := req.Date
	if dateKey == "" {
		dateKey = time.Now().Format(domain.DateKeyLayout)
	}
	key := domain.SessionKey{UserID: userID(r, req.UserID), DateKey: dateKey}
	if err := key.Validate(); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.repo.SaveHistory(r.Context(), key, req.Messages); err != nil {
		slog.Error("Failed to save history", "user_id", key.UserID, "date_key", key.DateKey, "error", err)
		Error(w, http.StatusInternalServerError, "failed to save history")
		return
	}

	JSON(w, http.StatusOK, map[string]string{"message": "history saved"})
}

// ClearHistory handles DELETE /api/history?date=YYYY-MM-DD: removes the
// entire keyed record.
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	key := sessionKeyFromQuery(r)
	if err := key.Validate(); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.repo.DeleteHistory(r.Context(), key); err != nil {
		slog.Error("Failed to clear history", "user_id", key.UserID, "date_key", key.DateKey, "error", err)
		Error(w, http.StatusInternalServerError, "failed to clear history")
		return
	}

	JSON(w, http.StatusOK, map[string]string{"message": "chat cleared"})
}
