package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vovakirdan/haikuchat/internal/proto"
)

func doJSON(t *testing.T, env *testEnv, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	env.server.Config.Handler.ServeHTTP(resp, req)
	return resp
}

func decodeRooms(t *testing.T, resp *httptest.ResponseRecorder) []proto.Room {
	t.Helper()
	var rooms []proto.Room
	if err := json.Unmarshal(resp.Body.Bytes(), &rooms); err != nil {
		t.Fatalf("failed to unmarshal rooms: %v (%s)", err, resp.Body.String())
	}
	return rooms
}

func TestCreateRoom(t *testing.T) {
	env := startTestServer(t, "", nil)

	resp := doJSON(t, env, http.MethodPost, "/api/rooms", `{"roomID":"abc123","roomName":"old pond","userID":"U1"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var room proto.Room
	if err := json.Unmarshal(resp.Body.Bytes(), &room); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if room.RoomID != "ABC123" || room.RoomName != "old pond" {
		t.Errorf("unexpected room: %+v", room)
	}
	if room.LastMessage != proto.DefaultLastMessage || room.MessageTime == "" {
		t.Errorf("expected defaults, got %+v", room)
	}

	// Same code again
	resp = doJSON(t, env, http.MethodPost, "/api/rooms", `{"roomID":"ABC123","roomName":"again","userID":"U2"}`)
	if resp.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", resp.Code)
	}

	tests := []struct {
		name string
		body string
	}{
		{name: "name too long", body: `{"roomName":"sixteen chars!!!!","userID":"U1"}`},
		{name: "missing name", body: `{"userID":"U1"}`},
		{name: "missing user", body: `{"roomName":"pond"}`},
		{name: "not json", body: `nope`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, env, http.MethodPost, "/api/rooms", tt.body)
			if resp.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d: %s", resp.Code, resp.Body.String())
			}
		})
	}
}

func TestCreateRoomGeneratesCode(t *testing.T) {
	env := startTestServer(t, "", nil)

	resp := doJSON(t, env, http.MethodPost, "/api/rooms", `{"roomName":"frog","userID":"U1"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var room proto.Room
	if err := json.Unmarshal(resp.Body.Bytes(), &room); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(room.RoomID) != 6 {
		t.Fatalf("expected 6 character code, got %q", room.RoomID)
	}
}

func TestListAndJoinRooms(t *testing.T) {
	env := startTestServer(t, "", nil)

	for _, body := range []string{
		`{"roomID":"AAAAAA","roomName":"mine","userID":"U1"}`,
		`{"roomID":"BBBBBB","roomName":"theirs","userID":"U2"}`,
	} {
		if resp := doJSON(t, env, http.MethodPost, "/api/rooms", body); resp.Code != http.StatusCreated {
			t.Fatalf("create failed: %d %s", resp.Code, resp.Body.String())
		}
	}

	rooms := decodeRooms(t, doJSON(t, env, http.MethodGet, "/api/rooms?userID=U1", ""))
	if len(rooms) != 1 || rooms[0].RoomID != "AAAAAA" {
		t.Fatalf("unexpected rooms for U1: %+v", rooms)
	}

	rooms = decodeRooms(t, doJSON(t, env, http.MethodGet, "/api/rooms?roomID=BBBBBB", ""))
	if len(rooms) != 1 || rooms[0].RoomName != "theirs" {
		t.Fatalf("unexpected lookup result: %+v", rooms)
	}
	rooms = decodeRooms(t, doJSON(t, env, http.MethodGet, "/api/rooms?roomID=ZZZZZZ", ""))
	if len(rooms) != 0 {
		t.Fatalf("expected empty lookup, got %+v", rooms)
	}

	if resp := doJSON(t, env, http.MethodPost, "/api/rooms/join", `{"roomID":"BBBBBB","userID":"U1"}`); resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", resp.Code, resp.Body.String())
	}
	if resp := doJSON(t, env, http.MethodPost, "/api/rooms/join", `{"roomID":"ZZZZZZ","userID":"U1"}`); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	rooms = decodeRooms(t, doJSON(t, env, http.MethodGet, "/api/rooms?userID=U1", ""))
	if len(rooms) != 2 {
		t.Fatalf("expected 2 rooms after join, got %+v", rooms)
	}

	if resp := doJSON(t, env, http.MethodGet, "/api/rooms", ""); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without query, got %d", resp.Code)
	}
}

func TestGuestEndpoint(t *testing.T) {
	env := startTestServer(t, "test-secret", nil)

	resp := doJSON(t, env, http.MethodPost, "/api/guest", `{"username":"basho"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var guest proto.GuestResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &guest); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if guest.Username != "basho" || guest.UserID == "" || guest.Token == "" {
		t.Fatalf("unexpected guest: %+v", guest)
	}
	if _, err := env.ids.Verify(guest.Token, guest.UserID); err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}

	resp = doJSON(t, env, http.MethodPost, "/api/guest", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty body, got %d", resp.Code)
	}
}

func TestHistoryEndpointValidation(t *testing.T) {
	env := startTestServer(t, "", nil)

	for _, path := range []string{"/api/messages", "/api/messages?roomID=R1&limit=x", "/api/messages?roomID=R1&before=x"} {
		if resp := doJSON(t, env, http.MethodGet, path, ""); resp.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, resp.Code)
		}
	}

	resp := doJSON(t, env, http.MethodGet, "/api/messages?roomID=EMPTY1", "")
	if resp.Code != http.StatusOK || resp.Body.String() != "[]" {
		t.Fatalf("expected empty array, got %d %q", resp.Code, resp.Body.String())
	}
}
