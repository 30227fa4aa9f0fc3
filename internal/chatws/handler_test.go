package chatws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maiya-app/maiya/internal/assistant"
	"github.com/maiya-app/maiya/internal/domain"
	"github.com/maiya-app/maiya/internal/identity"
	"github.com/maiya-app/maiya/internal/store"
)

type fakeProvider struct {
	completeReply string
	completeErr   error
	imageURL      string
	imageErr      error
}

func (f *fakeProvider) Complete(context.Context, string, []domain.Message) (string, error) {
	return f.completeReply, f.completeErr
}

func (f *fakeProvider) GenerateImage(context.Context, string) (string, error) {
	return f.imageURL, f.imageErr
}

func dialTestServer(t *testing.T, p *fakeProvider) *websocket.Conn {
	t.Helper()

	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "maiya.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	sessions := assistant.NewSessionManager()
	t.Cleanup(sessions.Shutdown)

	svc := assistant.NewService(p, repo, sessions)
	handler := NewHandler(svc, "", true)

	srv := httptest.NewServer(identity.Middleware(false)(handler))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	ws, _, err := websocket.Dial(ctx, srv.URL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close(websocket.StatusNormalClosure, "test done") })
	return ws
}

func send(t *testing.T, ws *websocket.Conn, msg clientMessage) {
	t.Helper()
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, ws.Write(ctx, websocket.MessageText, data))
}

func receive(t *testing.T, ws *websocket.Conn) serverMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, data, err := ws.Read(ctx)
	require.NoError(t, err)
	var msg serverMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestChatRoundtrip(t *testing.T) {
	ws := dialTestServer(t, &fakeProvider{completeReply: "Hi! Let's talk marketing."})

	send(t, ws, clientMessage{Type: "chat", Message: "hello maiya"})
	msg := receive(t, ws)

	assert.Equal(t, "reply", msg.Type)
	assert.Equal(t, "Hi! Let's talk marketing.", msg.Reply)
}

func TestImageFlowOverWebSocket(t *testing.T) {
	ws := dialTestServer(t, &fakeProvider{imageURL: "https://img.example/1.png"})

	send(t, ws, clientMessage{Type: "chat", Message: "generate image"})
	msg := receive(t, ws)
	assert.Equal(t, "reply", msg.Type)
	assert.Equal(t, assistant.AskImageMessage, msg.Reply)

	send(t, ws, clientMessage{Type: "chat", Message: "a misty forest at sunrise"})
	msg = receive(t, ws)
	assert.Equal(t, "image", msg.Type)
	assert.Equal(t, "https://img.example/1.png", msg.ImageURL)
}

func TestProviderFailureSendsApology(t *testing.T) {
	ws := dialTestServer(t, &fakeProvider{completeErr: context.DeadlineExceeded})

	send(t, ws, clientMessage{Type: "chat", Message: "hello"})
	msg := receive(t, ws)

	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, assistant.ApologyMessage, msg.Reply)
}

func TestPingPong(t *testing.T) {
	ws := dialTestServer(t, &fakeProvider{})

	send(t, ws, clientMessage{Type: "ping"})
	msg := receive(t, ws)
	assert.Equal(t, "pong", msg.Type)
}

func TestClearResetsPendingImageState(t *testing.T) {
	ws := dialTestServer(t, &fakeProvider{completeReply: "sure thing"})

	send(t, ws, clientMessage{Type: "chat", Message: "generate image"})
	msg := receive(t, ws)
	require.Equal(t, assistant.AskImageMessage, msg.Reply)

	send(t, ws, clientMessage{Type: "clear"})
	msg = receive(t, ws)
	require.Equal(t, "cleared", msg.Type)

	// After clear, a normal message goes to chat instead of being read as
	// an image description.
	send(t, ws, clientMessage{Type: "chat", Message: "what should I post today?"})
	msg = receive(t, ws)
	assert.Equal(t, "reply", msg.Type)
	assert.Equal(t, "sure thing", msg.Reply)
}
