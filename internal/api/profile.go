package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/maiya-app/maiya/internal/domain"
)

type profileRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Niche  string `json:"niche"`
}

type profileResponse struct {
	Name  string `json:"name"`
	Niche string `json:"niche"`
}

// SaveProfile handles POST /api/profile: upserts the user's name and niche.
func (h *Handler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile := &domain.Profile{
		UserID: userID(r, req.UserID),
		Name:   req.Name,
		Niche:  req.Niche,
	}
	if err := profile.Validate(); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.repo.UpsertProfile(r.Context(), profile); err != nil {
		slog.Error("Failed to save profile", "user_id", profile.UserID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to save profile")
		return
	}

	JSON(w, http.StatusOK, map[string]string{"message": "profile saved"})
}

// GetProfile handles GET /api/profile: returns the stored name and niche.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	uid := userID(r, r.URL.Query().Get("user_id"))
	if uid == "" {
		Error(w, http.StatusBadRequest, "user_id is required")
		return
	}

	profile, err := h.repo.GetProfile(r.Context(), uid)
	if err != nil {
		slog.Error("Failed to load profile", "user_id", uid, "error", err)
		Error(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if profile == nil {
		Error(w, http.StatusNotFound, "profile not found")
		return
	}

	JSON(w, http.StatusOK, profileResponse{Name: profile.Name, Niche: profile.Niche})
}
