// Package chatws serves the live chat endpoint over WebSocket. It runs the
// same routing pipeline as the HTTP chat route, but keeps the conversation
// history on the connection so the frontend only sends the new message.
package chatws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/maiya-app/maiya/internal/assistant"
	"github.com/maiya-app/maiya/internal/domain"
	"github.com/maiya-app/maiya/internal/identity"
)

// Handler upgrades connections and relays chat messages to the assistant.
type Handler struct {
	svc           *assistant.Service
	allowedOrigin string
	isDev         bool
}

// NewHandler creates a WebSocket chat handler.
func NewHandler(svc *assistant.Service, allowedOrigin string, isDev bool) *Handler {
	return &Handler{
		svc:           svc,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

// clientMessage is one inbound frame.
type clientMessage struct {
	Type    string `json:"type"` // "chat", "clear", "ping"
	Message string `json:"message,omitempty"`
	Name    string `json:"name,omitempty"`
	Niche   string `json:"niche,omitempty"`
}

// serverMessage is one outbound frame.
type serverMessage struct {
	Type     string `json:"type"` // "reply", "image", "fallback", "error", "pong", "cleared"
	Reply    string `json:"reply,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "user_id", userID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "user_id", userID)
		}
	}()

	// Each connection is its own routing session: the pending-image flag
	// lives and dies with the connection.
	sessionID := "ws_" + uuid.NewString()
	defer h.svc.Sessions().Delete(sessionID)

	slog.Info("Chat WebSocket connected", "user_id", userID, "session_id", sessionID)
	h.readLoop(r.Context(), ws, userID, sessionID)
	slog.Info("Chat WebSocket disconnected", "user_id", userID, "session_id", sessionID)
}

// readLoop processes frames sequentially: one in-flight interaction per
// connection, no overlapping provider calls.
func (h *Handler) readLoop(ctx context.Context, ws *websocket.Conn, userID, sessionID string) {
	var history []domain.Message

	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client", "user_id", userID)
			} else {
				slog.Warn("WebSocket read error", "error", err, "user_id", userID)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.write(ctx, ws, serverMessage{Type: "error", Reply: "invalid message"})
			continue
		}

		switch msg.Type {
		case "ping":
			h.write(ctx, ws, serverMessage{Type: "pong"})

		case "clear":
			history = nil
			h.svc.Sessions().Delete(sessionID)
			h.write(ctx, ws, serverMessage{Type: "cleared"})

		case "chat":
			if msg.Message == "" {
				h.write(ctx, ws, serverMessage{Type: "error", Reply: "message cannot be empty"})
				continue
			}
			history = append(history, domain.Message{
				Role:      domain.RoleUser,
				Content:   msg.Message,
				Timestamp: time.Now(),
			})

			reply, err := h.svc.HandleMessage(ctx, assistant.ChatInput{
				SessionID: sessionID,
				UserID:    userID,
				Name:      msg.Name,
				Niche:     msg.Niche,
				Messages:  history,
			})
			if err != nil {
				slog.Error("Chat message failed", "user_id", userID, "error", err)
				h.write(ctx, ws, serverMessage{Type: "error", Reply: assistant.ApologyMessage})
				continue
			}

			history = append(history, domain.Message{
				Role:      domain.RoleAssistant,
				Content:   replyContent(reply),
				Timestamp: time.Now(),
			})
			h.write(ctx, ws, toServerMessage(reply))

		default:
			h.write(ctx, ws, serverMessage{Type: "error", Reply: "unknown message type"})
		}
	}
}

func replyContent(r *assistant.Reply) string {
	if r.ImageURL != "" {
		return r.ImageURL
	}
	return r.Text
}

func toServerMessage(r *assistant.Reply) serverMessage {
	switch {
	case r.ImageURL != "":
		return serverMessage{Type: "image", Reply: r.Text, ImageURL: r.ImageURL}
	case r.Fallback:
		return serverMessage{Type: "fallback", Reply: r.Text}
	default:
		return serverMessage{Type: "reply", Reply: r.Text}
	}
}

func (h *Handler) write(ctx context.Context, ws *websocket.Conn, msg serverMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("Failed to marshal websocket message", "error", err)
		return
	}
	if err := ws.Write(ctx, websocket.MessageText, data); err != nil {
		slog.Debug("WebSocket write error", "error", err)
	}
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" {
		return true
	}
	if origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}
