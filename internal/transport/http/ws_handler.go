package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/haikuchat/internal/config"
	"github.com/vovakirdan/haikuchat/internal/identity"
	"github.com/vovakirdan/haikuchat/internal/proto"
	"github.com/vovakirdan/haikuchat/internal/relay"
	"github.com/vovakirdan/haikuchat/internal/utils"
)

// WSHandler upgrades HTTP connections and bridges them to relay.Client.
type WSHandler struct {
	hub       *relay.Hub
	ids       *identity.Service
	readLimit int64
	rateLimit int
	log       *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler. The room comes from the id query
// parameter, the sender from userID and username.
func NewWSHandler(hub *relay.Hub, ids *identity.Service, cfg *config.Config, logger *zerolog.Logger) http.Handler {
	return &WSHandler{
		hub:       hub,
		ids:       ids,
		readLimit: cfg.MaxMessageBytes,
		rateLimit: cfg.RateLimit,
		log:       logger,
	}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	roomID := query.Get("id")
	userID := query.Get("userID")
	username := query.Get("username")
	if roomID == "" || userID == "" {
		writeError(w, http.StatusBadRequest, "id and userID are required")
		return
	}

	claims, err := h.ids.Verify(query.Get("token"), userID)
	if err != nil {
		h.log.Debug().Err(err).Str("user_id", userID).Msg("ws token rejected")
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	if claims != nil && username == "" {
		username = claims.Username
	}

	// Register before the upgrade so that a client is in its room once the
	// handshake completes.
	client := relay.NewClient(utils.NewID(), userID, username, roomID)
	if !h.hub.RegisterClient(client) {
		writeError(w, http.StatusServiceUnavailable, "relay shutting down")
		return
	}
	defer h.hub.UnregisterClient(client)

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.CloseNow()
	if h.readLimit > 0 {
		conn.SetReadLimit(h.readLimit)
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != -1 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("client_id", client.ID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *relay.Client) error {
	limiter := newRateLimiter(h.rateLimit)
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			h.log.Debug().Err(err).Str("client_id", client.ID).Msg("read ws frame")
			return err
		}

		if typ != websocket.MessageText {
			if err := h.reject(ctx, conn, client, relay.ErrCodeBadRequest, "text frames only"); err != nil {
				return err
			}
			continue
		}

		var frame proto.Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			h.log.Debug().Err(err).Str("client_id", client.ID).Msg("malformed ws frame")
			if err := h.reject(ctx, conn, client, relay.ErrCodeBadRequest, "malformed frame"); err != nil {
				return err
			}
			continue
		}

		if !limiter.allow() {
			if err := h.reject(ctx, conn, client, relay.ErrCodeRateLimited, "rate limit exceeded"); err != nil {
				return err
			}
			continue
		}

		select {
		case client.Commands <- frameToCommand(frame):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *relay.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, frameFromEvent(client.RoomID, event)); err != nil {
				h.log.Error().Err(err).Str("client_id", client.ID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *WSHandler) reject(ctx context.Context, conn *websocket.Conn, client *relay.Client, code, msg string) error {
	return wsjson.Write(ctx, conn, errorFrame(client.RoomID, relay.NewError(code, msg)))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: msg})
}
