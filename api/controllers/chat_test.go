package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/globetrotter-app/globetrotter-backend/internal/chat"
	pkgAuth "github.com/globetrotter-app/globetrotter-backend/pkg/auth"
	"github.com/globetrotter-app/globetrotter-backend/pkg/auth/session"
	"github.com/globetrotter-app/globetrotter-backend/pkg/config"
	pkgerrors "github.com/globetrotter-app/globetrotter-backend/pkg/errors"
	"github.com/globetrotter-app/globetrotter-backend/pkg/logger"
	"github.com/globetrotter-app/globetrotter-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type wsStubChat struct {
	sendErr error
}

func (wsStubChat) History(ctx context.Context, viewerID uuid.UUID, slug string, limit int) ([]chat.MessageDTO, error) {
	return nil, nil
}

func (wsStubChat) Send(ctx context.Context, senderID uuid.UUID, slug, body string) (*chat.MessageDTO, error) {
	return &chat.MessageDTO{}, nil
}

func (wsStubChat) JoinLive(ctx context.Context, c *chat.Conn, slug string) error { return nil }

func (s wsStubChat) SendLive(ctx context.Context, c *chat.Conn, body string) (*chat.MessageDTO, error) {
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	return &chat.MessageDTO{}, nil
}

func (wsStubChat) LeaveLive(ctx context.Context, c *chat.Conn) {}

type wsStubSessions struct{}

func (wsStubSessions) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func dialChatWS(t *testing.T, svc chat.Service) *websocket.Conn {
	t.Helper()

	jwtCfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	srv := httptest.NewServer(ChatWS(ChatWSParams{
		Service:  svc,
		JWT:      jwtCfg,
		Chat:     config.ChatConfig{WriteTimeout: time.Second},
		Sessions: wsStubSessions{},
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	}))
	t.Cleanup(srv.Close)

	token, err := pkgAuth.MintAccessToken(jwtCfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "traveler@example.com",
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?trip=rome-trip&token=" + token
	socket, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { socket.Close() })
	return socket
}

func readErrorFrame(t *testing.T, socket *websocket.Conn) types.ErrorEnvelope {
	t.Helper()
	socket.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := socket.ReadMessage()
	if err != nil {
		t.Fatalf("read error frame: %v", err)
	}
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		t.Fatalf("decode error frame %q: %v", payload, err)
	}
	return envelope
}

func TestChatWSReportsMalformedFrames(t *testing.T) {
	socket := dialChatWS(t, wsStubChat{})

	// A burst of bad frames exercises the error queue between the read and
	// write loops; each one must come back as a well-formed envelope.
	for i := 0; i < 3; i++ {
		if err := socket.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
			t.Fatalf("write frame %d: %v", i, err)
		}
	}
	for i := 0; i < 3; i++ {
		envelope := readErrorFrame(t, socket)
		if envelope.Error.Code != string(pkgerrors.CodeValidation) {
			t.Fatalf("frame %d: expected validation error, got %+v", i, envelope)
		}
	}
}

func TestChatWSClosesAfterForbiddenSend(t *testing.T) {
	socket := dialChatWS(t, wsStubChat{sendErr: pkgerrors.New(pkgerrors.CodeForbidden, "not a trip member")})

	if err := socket.WriteMessage(websocket.TextMessage, []byte(`{"body":"hi"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	envelope := readErrorFrame(t, socket)
	if envelope.Error.Code != string(pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden error, got %+v", envelope)
	}

	socket.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := socket.ReadMessage(); err == nil {
		t.Fatal("expected the server to close the connection after a forbidden send")
	}
}
