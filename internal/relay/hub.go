package relay

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/haikuchat/internal/log"
	"github.com/vovakirdan/haikuchat/internal/proto"
	"github.com/vovakirdan/haikuchat/internal/store"
)

// MessageStore is the persistence the hub needs.
type MessageStore interface {
	SaveMessage(ctx context.Context, msg *store.Message) error
	UpdateLastMessage(ctx context.Context, roomID, text, messageTime string) error
}

type inbound struct {
	client *Client
	cmd    *Command
}

// Hub owns room membership. All state is touched only by the Run goroutine.
type Hub struct {
	store MessageStore
	log   *zerolog.Logger
	now   func() time.Time

	register   chan *Client
	unregister chan *Client
	inbox      chan inbound
	done       chan struct{}

	clients map[*Client]struct{}
	rooms   map[string]*Room
}

// NewHub creates a new hub. A nil store disables persistence.
func NewHub(st MessageStore, logger *zerolog.Logger) *Hub {
	return &Hub{
		store:      st,
		log:        log.OrNop(logger),
		now:        time.Now,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbox:      make(chan inbound, 64),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[string]*Room),
	}
}

// Run processes registrations and commands until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.addClient(c)
		case c := <-h.unregister:
			h.removeClient(c)
		case in := <-h.inbox:
			h.handleCommand(ctx, in.client, in.cmd)
		}
	}
}

// RegisterClient adds c to its room. It returns false if the hub has stopped.
func (h *Hub) RegisterClient(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// UnregisterClient removes c from its room and closes its Events channel.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) addClient(c *Client) {
	if _, exists := h.clients[c]; exists {
		return
	}
	h.clients[c] = struct{}{}

	room, ok := h.rooms[c.RoomID]
	if !ok {
		room = NewRoom(c.RoomID)
		h.rooms[c.RoomID] = room
	}
	room.AddClient(c)

	go h.pump(c)
	h.log.Debug().Str("client_id", c.ID).Str("room_id", c.RoomID).Int("clients", room.Len()).Msg("client joined room")
}

func (h *Hub) removeClient(c *Client) {
	if _, exists := h.clients[c]; !exists {
		return
	}
	delete(h.clients, c)

	if room, ok := h.rooms[c.RoomID]; ok {
		room.RemoveClient(c)
		if room.Empty() {
			delete(h.rooms, c.RoomID)
		}
	}
	close(c.done)
	close(c.Events)
	h.log.Debug().Str("client_id", c.ID).Str("room_id", c.RoomID).Msg("client left room")
}

func (h *Hub) shutdown() {
	for c := range h.clients {
		h.removeClient(c)
	}
	close(h.done)
}

// pump forwards a client's commands into the hub loop.
func (h *Hub) pump(c *Client) {
	for {
		select {
		case cmd := <-c.Commands:
			select {
			case h.inbox <- inbound{client: c, cmd: cmd}:
			case <-c.done:
				return
			case <-h.done:
				return
			}
		case <-c.done:
			return
		case <-h.done:
			return
		}
	}
}

func (h *Hub) handleCommand(ctx context.Context, c *Client, cmd *Command) {
	if _, ok := h.clients[c]; !ok || cmd == nil {
		return
	}

	switch cmd.Kind {
	case CommandSendMessage:
		h.handleSend(ctx, c, cmd.Message)
	default:
		deliver(c, &Event{Kind: EventError, Error: NewError(ErrCodeUnknownAction, "unknown action: "+cmd.Action)})
	}
}

func (h *Hub) handleSend(ctx context.Context, c *Client, msg Message) {
	msg.Text = strings.TrimSpace(msg.Text)
	if msg.Text == "" {
		deliver(c, &Event{Kind: EventError, Error: NewError(ErrCodeBadRequest, "empty message")})
		return
	}
	if msg.RoomID != "" && msg.RoomID != c.RoomID {
		deliver(c, &Event{Kind: EventError, Error: NewError(ErrCodeBadRequest, "message for another room")})
		return
	}

	now := h.now()
	msg.RoomID = c.RoomID
	msg.UserID = c.UserID
	if msg.Username == "" {
		msg.Username = c.Username
	}
	if msg.Timestamp == "" {
		msg.Timestamp = now.Format(proto.TimestampLayout)
	}

	if h.store != nil {
		stored := &store.Message{
			RoomID:    msg.RoomID,
			UserID:    msg.UserID,
			Username:  msg.Username,
			Body:      msg.Text,
			Timestamp: msg.Timestamp,
		}
		if err := h.store.SaveMessage(ctx, stored); err != nil {
			h.log.Error().Err(err).Str("room_id", msg.RoomID).Msg("failed to save message")
			deliver(c, &Event{Kind: EventError, Error: NewError(ErrCodeInternal, "message not saved")})
			return
		}
		msg.ID = stored.ID

		err := h.store.UpdateLastMessage(ctx, msg.RoomID, msg.Text, now.Format(proto.MessageTimeLayout))
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			h.log.Warn().Err(err).Str("room_id", msg.RoomID).Msg("failed to update last message")
		}
	}

	if room, ok := h.rooms[c.RoomID]; ok {
		room.Broadcast(&Event{Kind: EventMessage, Message: msg})
	}
}
