package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/maiya-app/maiya/internal/assistant"
	"github.com/maiya-app/maiya/internal/provider"
)

// minPromptLength is the minimum accepted image prompt length.
const minPromptLength = 5

type imageRequest struct {
	Prompt string `json:"prompt"`
}

type imageResponse struct {
	ImageURL string `json:"imageUrl,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
	Message  string `json:"message,omitempty"`
}

type imageErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// GenerateImage handles POST /api/generate-image: validates the prompt,
// short-circuits layout-heavy requests to the fallback message, and
// otherwise calls the image provider with the styled prompt.
func (h *Handler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prompt := strings.TrimSpace(req.Prompt)
	if len(prompt) < minPromptLength {
		Error(w, http.StatusBadRequest, "prompt must be at least 5 characters")
		return
	}

	if assistant.NeedsVisualFallback(prompt) {
		JSON(w, http.StatusOK, imageResponse{
			Fallback: true,
			Message:  assistant.FallbackMessage,
		})
		return
	}

	url, err := h.provider.GenerateImage(r.Context(), assistant.BuildStyledPrompt(prompt))
	if err != nil {
		slog.Error("Image generation failed", "error", err)
		details := ""
		if pe, ok := provider.AsError(err); ok {
			details = pe.Message
		}
		JSON(w, http.StatusInternalServerError, imageErrorResponse{
			Error:   "image generation failed",
			Details: details,
		})
		return
	}

	JSON(w, http.StatusOK, imageResponse{ImageURL: url})
}
