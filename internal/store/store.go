package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a room does not exist.
	ErrNotFound = errors.New("not found")
	// ErrRoomExists is returned when a room code is already taken.
	ErrRoomExists = errors.New("room already exists")
)

// Room represents a chat room. ID is the six-character room code users share.
type Room struct {
	ID          string
	Name        string
	OwnerID     string
	LastMessage string
	MessageTime string
	CreatedAt   time.Time
}

// Message represents a persisted chat message.
type Message struct {
	ID        int64
	RoomID    string
	UserID    string
	Username  string
	Body      string
	Timestamp string // display timestamp chosen by the sender
	CreatedAt time.Time
}

// RoomStore handles room persistence.
type RoomStore interface {
	// CreateRoom creates a room and makes its owner a member.
	CreateRoom(ctx context.Context, room *Room) error

	// GetRoom retrieves a room by code.
	GetRoom(ctx context.Context, id string) (*Room, error)

	// ListRoomsForUser lists rooms the user owns or joined, newest first.
	ListRoomsForUser(ctx context.Context, userID string) ([]*Room, error)

	// AddMember adds a user to a room. Adding an existing member is a no-op.
	AddMember(ctx context.Context, roomID, userID string) error

	// IsMember checks if user is a member of the room.
	IsMember(ctx context.Context, roomID, userID string) (bool, error)

	// UpdateLastMessage records the latest message preview of a room.
	UpdateLastMessage(ctx context.Context, roomID, text, messageTime string) error
}

// MessageStore handles message persistence.
type MessageStore interface {
	// SaveMessage persists a message and sets its ID.
	SaveMessage(ctx context.Context, msg *Message) error

	// ListMessages returns up to limit messages of a room in chronological order.
	// If beforeID is provided, only messages older than that ID are considered.
	ListMessages(ctx context.Context, roomID string, limit int, beforeID *int64) ([]*Message, error)
}

// Store combines all persistence the relay needs.
type Store interface {
	RoomStore
	MessageStore
	Close() error
}
