package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/maiya-app/maiya/internal/assistant"
	"github.com/maiya-app/maiya/internal/domain"
)

type summaryRequest struct {
	UserID string `json:"user_id"`
	Date   string `json:"date"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

// CreateSummary handles POST /api/summary: regenerates the recap for the
// given day's session and overwrites the stored record.
func (h *Handler) CreateSummary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
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

	text, err := h.svc.Summarize(r.Context(), key)
	if err != nil {
		if errors.Is(err, assistant.ErrNoHistory) {
			Error(w, http.StatusNotFound, "no chat history for this session")
			return
		}
		slog.Error("Failed to summarize session", "user_id", key.UserID, "date_key", key.DateKey, "error", err)
		Error(w, http.StatusInternalServerError, "failed to summarize session")
		return
	}

	JSON(w, http.StatusOK, summaryResponse{Summary: text})
}

// GetSummary handles GET /api/summary?date=YYYY-MM-DD.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	key := sessionKeyFromQuery(r)
	if err := key.Validate(); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.repo.GetSummary(r.Context(), key)
	if err != nil {
		slog.Error("Failed to load summary", "user_id", key.UserID, "date_key", key.DateKey, "error", err)
		Error(w, http.StatusInternalServerError, "failed to load summary")
		return
	}
	if summary == nil {
		Error(w, http.StatusNotFound, "summary not found")
		return
	}

	JSON(w, http.StatusOK, summaryResponse{Summary: summary.Summary})
}
