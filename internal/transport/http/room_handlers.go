package http

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/haikuchat/internal/proto"
	"github.com/vovakirdan/haikuchat/internal/store"
	"github.com/vovakirdan/haikuchat/internal/utils"
)

// MaxRoomNameLength is the longest room name the relay accepts.
const MaxRoomNameLength = 15

// RoomHandlers provides HTTP handlers for room management endpoints.
type RoomHandlers struct {
	store store.RoomStore
	log   *zerolog.Logger
	now   func() time.Time
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(st store.RoomStore, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		store: st,
		log:   logger,
		now:   time.Now,
	}
}

// CreateRoom handles room creation. A missing roomID gets a generated code.
// POST /api/rooms
func (h *RoomHandlers) CreateRoom(c *gin.Context) {
	var req proto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create room request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	req.RoomName = strings.TrimSpace(req.RoomName)
	if req.RoomName == "" || utf8.RuneCountInString(req.RoomName) > MaxRoomNameLength {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "roomName must be 1 to 15 characters"})
		return
	}
	if req.UserID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "userID is required"})
		return
	}

	room := &store.Room{
		ID:          strings.ToUpper(strings.TrimSpace(req.RoomID)),
		Name:        req.RoomName,
		OwnerID:     req.UserID,
		LastMessage: req.LastMessage,
		MessageTime: req.MessageTime,
	}
	if room.ID == "" {
		room.ID = utils.NewRoomCode()
	}
	if room.LastMessage == "" {
		room.LastMessage = proto.DefaultLastMessage
	}
	if room.MessageTime == "" {
		room.MessageTime = h.now().Format(proto.MessageTimeLayout)
	}

	if err := h.store.CreateRoom(c.Request.Context(), room); err != nil {
		if errors.Is(err, store.ErrRoomExists) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "room with this code already exists"})
			return
		}
		h.log.Error().Err(err).Str("room_name", req.RoomName).Msg("failed to create room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("room_id", room.ID).Str("room_name", room.Name).Str("owner_id", room.OwnerID).Msg("room created successfully")
	c.JSON(http.StatusCreated, roomToResponse(room))
}

// ListRooms lists the rooms of a user, or looks up one room by code. Both
// return an array; an unknown room code gives an empty one.
// GET /api/rooms?userID= | ?roomID=
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	ctx := c.Request.Context()

	if roomID := c.Query("roomID"); roomID != "" {
		room, err := h.store.GetRoom(ctx, roomID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusOK, []proto.Room{})
				return
			}
			h.log.Error().Err(err).Str("room_id", roomID).Msg("failed to get room")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			return
		}
		c.JSON(http.StatusOK, []proto.Room{roomToResponse(room)})
		return
	}

	userID := c.Query("userID")
	if userID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "userID or roomID is required"})
		return
	}

	rooms, err := h.store.ListRoomsForUser(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("failed to list rooms")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	// Convert to response format
	response := make([]proto.Room, 0, len(rooms))
	for _, room := range rooms {
		response = append(response, roomToResponse(room))
	}

	h.log.Debug().Str("user_id", userID).Int("room_count", len(rooms)).Msg("rooms listed successfully")
	c.JSON(http.StatusOK, response)
}

// JoinRoom adds a user to a room's members.
// POST /api/rooms/join
func (h *RoomHandlers) JoinRoom(c *gin.Context) {
	var req proto.JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RoomID == "" || req.UserID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "roomID and userID are required"})
		return
	}

	if err := h.store.AddMember(c.Request.Context(), req.RoomID, req.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		h.log.Error().Err(err).Str("room_id", req.RoomID).Msg("failed to join room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("room_id", req.RoomID).Str("user_id", req.UserID).Msg("user joined room")
	c.Status(http.StatusNoContent)
}
