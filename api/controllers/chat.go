package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/globetrotter-app/globetrotter-backend/api/middleware"
	"github.com/globetrotter-app/globetrotter-backend/api/responses"
	"github.com/globetrotter-app/globetrotter-backend/api/validators"
	"github.com/globetrotter-app/globetrotter-backend/internal/chat"
	pkgAuth "github.com/globetrotter-app/globetrotter-backend/pkg/auth"
	"github.com/globetrotter-app/globetrotter-backend/pkg/auth/session"
	"github.com/globetrotter-app/globetrotter-backend/pkg/config"
	pkgerrors "github.com/globetrotter-app/globetrotter-backend/pkg/errors"
	"github.com/globetrotter-app/globetrotter-backend/pkg/logger"
	"github.com/globetrotter-app/globetrotter-backend/pkg/pagination"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	wsPongWait    = 60 * time.Second
	wsPingPeriod  = 50 * time.Second
	wsErrorBuffer = 4
)

type sendMessageRequest struct {
	Body string `json:"body" validate:"required"`
}

// ChatHistory handles GET /trips/{slug}/chat. Anonymous viewers of public
// trips read history too, so the user id may be absent.
func ChatHistory(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserUUIDFromContext(r.Context())

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := svc.History(r.Context(), userID, chi.URLParam(r, "slug"), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, history)
	}
}

// ChatSend handles POST /trips/{slug}/chat for clients without a socket.
func ChatSend(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body sendMessageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		msg, err := svc.Send(r.Context(), userID, chi.URLParam(r, "slug"), body.Body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, msg)
	}
}

// ChatWSParams bundle what the websocket endpoint needs.
type ChatWSParams struct {
	Service  chat.Service
	JWT      config.JWTConfig
	Chat     config.ChatConfig
	Sessions session.AccessSessionChecker
	Logger   *logger.Logger
}

type wsInbound struct {
	Body string `json:"body"`
}

// ChatWS handles GET /chat/ws?trip={slug}&token={jwt}. Browsers cannot set
// an Authorization header during the websocket handshake, so the access token
// rides in the query string.
func ChatWS(params ChatWSParams) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     allowWSOrigin,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		logg := params.Logger
		slug := strings.TrimSpace(r.URL.Query().Get("trip"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "trip query parameter is required"))
			return
		}

		claims, err := pkgAuth.ParseAccessToken(params.JWT, r.URL.Query().Get("token"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
			return
		}
		if params.Sessions != nil {
			ok, err := params.Sessions.HasSession(r.Context(), claims.ID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
				return
			}
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
				return
			}
		}

		conn := chat.NewConn(claims.UserID)
		if err := params.Service.JoinLive(r.Context(), conn, slug); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		socket, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already wrote the handshake failure.
			params.Service.LeaveLive(r.Context(), conn)
			return
		}

		// The socket has a single writer: the read loop never touches it
		// and routes error frames through errCh instead.
		errCh := make(chan []byte, wsErrorBuffer)
		go writePump(socket, conn, errCh, params.Chat.WriteTimeout)
		readPump(r, socket, conn, errCh, params)
	}
}

func readPump(r *http.Request, socket *websocket.Conn, conn *chat.Conn, errCh chan<- []byte, params ChatWSParams) {
	// Closing errCh tells the write pump to drain queued frames, send the
	// close frame, and shut the socket. The write pump owns every write,
	// the close included.
	defer func() {
		close(errCh)
		params.Service.LeaveLive(r.Context(), conn)
	}()

	if params.Chat.ReadLimitBytes > 0 {
		socket.SetReadLimit(params.Chat.ReadLimitBytes)
	}
	socket.SetReadDeadline(time.Now().Add(wsPongWait))
	socket.SetPongHandler(func(string) error {
		return socket.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		_, payload, err := socket.ReadMessage()
		if err != nil {
			return
		}

		var inbound wsInbound
		if err := json.Unmarshal(payload, &inbound); err != nil {
			queueWSError(errCh, pkgerrors.New(pkgerrors.CodeValidation, "messages must be json"))
			continue
		}

		if _, err := params.Service.SendLive(r.Context(), conn, inbound.Body); err != nil {
			queueWSError(errCh, err)
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeForbidden {
				return
			}
		}
	}
}

// writePump is the only goroutine allowed to write the socket. It drains the
// hub's broadcast stream and queued error frames, and keeps the connection
// alive with pings. It exits when either channel closes, and buffered error
// frames are delivered before the close frame goes out.
func writePump(socket *websocket.Conn, conn *chat.Conn, errCh <-chan []byte, writeTimeout time.Duration) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		socket.Close()
	}()

	for {
		select {
		case payload, ok := <-conn.Out():
			socket.SetWriteDeadline(deadline(writeTimeout))
			if !ok {
				socket.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := socket.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case payload, ok := <-errCh:
			socket.SetWriteDeadline(deadline(writeTimeout))
			if !ok {
				socket.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := socket.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			socket.SetWriteDeadline(deadline(writeTimeout))
			if err := socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// queueWSError hands an error frame to the write pump. A full queue drops
// the frame; a client flooding bad input loses notices, not ordering.
func queueWSError(errCh chan<- []byte, err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	payload, marshalErr := json.Marshal(map[string]any{
		"error": map[string]string{
			"code":    string(typed.Code()),
			"message": typed.Message(),
		},
	})
	if marshalErr != nil {
		return
	}
	select {
	case errCh <- payload:
	default:
	}
}

func deadline(timeout time.Duration) time.Time {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return time.Now().Add(timeout)
}

func allowWSOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	switch origin {
	case "http://localhost:3000", "https://globetrotter.app", "https://www.globetrotter.app":
		return true
	}
	return false
}
