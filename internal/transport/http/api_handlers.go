package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/haikuchat/internal/identity"
	"github.com/vovakirdan/haikuchat/internal/proto"
	"github.com/vovakirdan/haikuchat/internal/store"
)

// APIHandlers provides the guest and history endpoints.
type APIHandlers struct {
	ids          *identity.Service
	store        store.MessageStore
	historyLimit int
	log          *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(ids *identity.Service, st store.MessageStore, historyLimit int, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		ids:          ids,
		store:        st,
		historyLimit: historyLimit,
		log:          logger,
	}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Guest issues a guest identity, with a token when the relay signs them.
// POST /api/guest
func (h *APIHandlers) Guest(c *gin.Context) {
	var req proto.GuestRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.log.Debug().Err(err).Msg("invalid guest request")
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}
	}

	id, err := h.ids.IssueGuest(req.Username)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidName) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		h.log.Error().Err(err).Msg("failed to issue guest identity")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("user_id", id.UserID).Str("username", id.Username).Msg("guest identity issued")
	c.JSON(http.StatusOK, proto.GuestResponse{
		UserID:   id.UserID,
		Username: id.Username,
		Token:    id.Token,
	})
}

// History returns the latest messages of a room, oldest first.
// GET /api/messages?roomID=&limit=&before=
func (h *APIHandlers) History(c *gin.Context) {
	roomID := c.Query("roomID")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "roomID is required"})
		return
	}

	limit := h.historyLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		if limit <= 0 || n < limit {
			limit = n
		}
	}

	var beforeID *int64
	if raw := c.Query("before"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid before"})
			return
		}
		beforeID = &id
	}

	messages, err := h.store.ListMessages(c.Request.Context(), roomID, limit, beforeID)
	if err != nil {
		h.log.Error().Err(err).Str("room_id", roomID).Msg("failed to list messages")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]proto.Frame, 0, len(messages))
	for _, m := range messages {
		response = append(response, frameFromStored(m))
	}

	h.log.Debug().Str("room_id", roomID).Int("message_count", len(response)).Msg("history served")
	c.JSON(http.StatusOK, response)
}
