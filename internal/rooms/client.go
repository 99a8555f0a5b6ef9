package rooms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/haikuchat/internal/identity"
	"github.com/vovakirdan/haikuchat/internal/log"
	"github.com/vovakirdan/haikuchat/internal/proto"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("relay error (status %d): %s", e.Status, e.Body)
}

// Client talks to the room API under baseURL, e.g. http://localhost:8080/api.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zerolog.Logger
	now        func() time.Time
}

// NewClient creates a room directory client.
func NewClient(baseURL string, httpClient *http.Client, logger *zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log.OrNop(logger),
		now:        time.Now,
	}
}

// CreateRequest describes a new room. An empty Code gets a generated one.
type CreateRequest struct {
	Code   string
	Name   string
	UserID string
}

// Create registers a room owned by req.UserID. The preview starts as the default
// last message stamped with the current time.
func (c *Client) Create(ctx context.Context, req CreateRequest) (Room, error) {
	if err := ValidateName(req.Name); err != nil {
		return Room{}, err
	}
	code := req.Code
	if code == "" {
		code = NewCode()
	}
	code, err := NormalizeCode(code)
	if err != nil {
		return Room{}, err
	}

	payload := proto.CreateRoomRequest{
		RoomID:      code,
		RoomName:    strings.TrimSpace(req.Name),
		UserID:      req.UserID,
		LastMessage: proto.DefaultLastMessage,
		MessageTime: c.now().Format(proto.MessageTimeLayout),
	}
	body, err := c.doRequest(ctx, http.MethodPost, "rooms", payload)
	if err != nil {
		return Room{}, err
	}

	var created proto.Room
	if err := json.Unmarshal(body, &created); err != nil {
		return Room{}, fmt.Errorf("failed to parse room: %w", err)
	}
	c.log.Info().Str("room_id", created.RoomID).Msg("room created")
	return fromProto(created), nil
}

// ListForUser returns the rooms userID owns or joined.
func (c *Client) ListForUser(ctx context.Context, userID string) ([]Room, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "rooms?"+url.Values{"userID": {userID}}.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return parseRooms(body)
}

// Lookup finds a room by code. The first match wins.
func (c *Client) Lookup(ctx context.Context, code string) (Room, error) {
	code, err := NormalizeCode(code)
	if err != nil {
		return Room{}, err
	}
	body, err := c.doRequest(ctx, http.MethodGet, "rooms?"+url.Values{"roomID": {code}}.Encode(), nil)
	if err != nil {
		return Room{}, err
	}
	rooms, err := parseRooms(body)
	if err != nil {
		return Room{}, err
	}
	if len(rooms) == 0 {
		return Room{}, ErrRoomNotFound
	}
	return rooms[0], nil
}

// Join looks a room up and then adds userID to its members. A refused
// membership update is reported as ErrRoomNotFound.
func (c *Client) Join(ctx context.Context, code, userID string) (Room, error) {
	room, err := c.Lookup(ctx, code)
	if err != nil {
		return Room{}, err
	}

	_, err = c.doRequest(ctx, http.MethodPost, "rooms/join", proto.JoinRoomRequest{RoomID: room.ID, UserID: userID})
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return Room{}, fmt.Errorf("%w: %v", ErrRoomNotFound, err)
		}
		return Room{}, err
	}
	return room, nil
}

// Guest asks the relay for a guest identity.
func (c *Client) Guest(ctx context.Context, name string) (identity.Identity, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "guest", proto.GuestRequest{Username: name})
	if err != nil {
		return identity.Identity{}, err
	}
	var resp proto.GuestResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return identity.Identity{}, fmt.Errorf("failed to parse guest: %w", err)
	}
	return identity.Identity{UserID: resp.UserID, Username: resp.Username, Token: resp.Token}, nil
}

// doRequest executes a request against the room API and returns the body of a
// 2xx response.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	return respBody, nil
}

func parseRooms(body []byte) ([]Room, error) {
	var fetched []proto.Room
	if err := json.Unmarshal(body, &fetched); err != nil {
		return nil, fmt.Errorf("failed to parse rooms: %w", err)
	}
	rooms := make([]Room, 0, len(fetched))
	for _, r := range fetched {
		rooms = append(rooms, fromProto(r))
	}
	return rooms, nil
}

func fromProto(r proto.Room) Room {
	return Room{
		ID:          r.RoomID,
		Name:        r.RoomName,
		LastMessage: r.LastMessage,
		MessageTime: r.MessageTime,
	}
}
