package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/vovakirdan/haikuchat/internal/store"
)

//go:embed schema.sql
var schema string

var _ store.Store = (*SQLiteStore)(nil)

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, ApplySchema)
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests that need a custom schema.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection; it also keeps :memory: databases alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// ApplySchema creates the tables if they do not exist.
func ApplySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== RoomStore implementation ====

// CreateRoom creates a room and makes its owner a member.
func (s *SQLiteStore) CreateRoom(ctx context.Context, room *store.Room) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.ExecContext(ctx, `
		INSERT INTO rooms (id, name, owner_id, last_message, message_time)
		VALUES (?, ?, ?, ?, ?)
	`, room.ID, room.Name, room.OwnerID, room.LastMessage, room.MessageTime)
	if err != nil {
		if isConstraint(err) {
			return fmt.Errorf("insert room %s: %w", room.ID, store.ErrRoomExists)
		}
		return fmt.Errorf("insert room: %w", err)
	}

	if room.OwnerID != "" {
		_, err = tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO room_members (room_id, user_id)
			VALUES (?, ?)
		`, room.ID, room.OwnerID)
		if err != nil {
			return fmt.Errorf("add owner: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	created, err := s.GetRoom(ctx, room.ID)
	if err != nil {
		return err
	}
	room.CreatedAt = created.CreatedAt
	return nil
}

// GetRoom retrieves a room by code.
func (s *SQLiteStore) GetRoom(ctx context.Context, id string) (*store.Room, error) {
	query := `
		SELECT id, name, owner_id, last_message, message_time, created_at
		FROM rooms
		WHERE id = ?
	`
	var room store.Room
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&room.ID,
		&room.Name,
		&room.OwnerID,
		&room.LastMessage,
		&room.MessageTime,
		&room.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("room %s: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("query room: %w", err)
	}

	return &room, nil
}

// ListRoomsForUser lists rooms the user owns or joined, newest first.
func (s *SQLiteStore) ListRoomsForUser(ctx context.Context, userID string) ([]*store.Room, error) {
	query := `
		SELECT DISTINCT r.id, r.name, r.owner_id, r.last_message, r.message_time, r.created_at, r.rowid
		FROM rooms r
		LEFT JOIN room_members rm ON r.id = rm.room_id
		WHERE rm.user_id = ?
		   OR r.owner_id = ?
		ORDER BY r.created_at DESC, r.rowid DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("query rooms: %w", err)
	}
	defer rows.Close()

	rooms := []*store.Room{}
	for rows.Next() {
		var room store.Room
		var rowID int64
		if err := rows.Scan(&room.ID, &room.Name, &room.OwnerID, &room.LastMessage, &room.MessageTime, &room.CreatedAt, &rowID); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, &room)
	}

	return rooms, rows.Err()
}

// AddMember adds a user to a room.
func (s *SQLiteStore) AddMember(ctx context.Context, roomID, userID string) error {
	query := `
		INSERT OR IGNORE INTO room_members (room_id, user_id)
		VALUES (?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, roomID, userID); err != nil {
		if isConstraint(err) {
			return fmt.Errorf("add member to %s: %w", roomID, store.ErrNotFound)
		}
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

// IsMember checks if user is a member of the room.
func (s *SQLiteStore) IsMember(ctx context.Context, roomID, userID string) (bool, error) {
	query := `
		SELECT EXISTS(SELECT 1 FROM room_members WHERE room_id = ? AND user_id = ?)
	`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, roomID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return exists, nil
}

// UpdateLastMessage records the latest message preview of a room.
func (s *SQLiteStore) UpdateLastMessage(ctx context.Context, roomID, text, messageTime string) error {
	query := `
		UPDATE rooms SET last_message = ?, message_time = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query, text, messageTime, roomID)
	if err != nil {
		return fmt.Errorf("update last message: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("room %s: %w", roomID, store.ErrNotFound)
	}
	return nil
}

// ==== MessageStore implementation ====

// SaveMessage persists a message and sets its ID.
func (s *SQLiteStore) SaveMessage(ctx context.Context, msg *store.Message) error {
	query := `
		INSERT INTO messages (room_id, user_id, username, body, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, msg.RoomID, msg.UserID, msg.Username, msg.Body, msg.Timestamp)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	msg.ID = id

	return nil
}

// ListMessages retrieves messages from a room with pagination.
func (s *SQLiteStore) ListMessages(ctx context.Context, roomID string, limit int, beforeID *int64) ([]*store.Message, error) {
	if limit <= 0 {
		limit = -1 // no limit in SQLite
	}

	var query string
	var args []any

	if beforeID != nil {
		query = `
			SELECT id, room_id, user_id, username, body, timestamp, created_at
			FROM messages
			WHERE room_id = ? AND id < ?
			ORDER BY id DESC
			LIMIT ?
		`
		args = []any{roomID, *beforeID, limit}
	} else {
		query = `
			SELECT id, room_id, user_id, username, body, timestamp, created_at
			FROM messages
			WHERE room_id = ?
			ORDER BY id DESC
			LIMIT ?
		`
		args = []any{roomID, limit}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := []*store.Message{}
	for rows.Next() {
		var msg store.Message
		if err := rows.Scan(&msg.ID, &msg.RoomID, &msg.UserID, &msg.Username, &msg.Body, &msg.Timestamp, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to get chronological order
	for i := range len(messages) / 2 {
		j := len(messages) - 1 - i
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func isConstraint(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}
