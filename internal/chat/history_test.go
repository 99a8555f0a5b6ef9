package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPHistoryFetch(t *testing.T) {
	gotRoom := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRoom <- r.URL.Query().Get("roomID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"roomID":"R 1","message":"hi","userID":"U2","timestamp":"2024-01-01 10:00:00"},{}]`))
	}))
	defer srv.Close()

	h := NewHTTPHistory(srv.URL+"/api/messages?roomID={roomID}", srv.Client(), nil)
	msgs, err := h.FetchHistory(context.Background(), "R 1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if room := <-gotRoom; room != "R 1" {
		t.Fatalf("room id not escaped correctly, server saw %q", room)
	}
	if len(msgs) != 1 || msgs[0].Text != "hi" {
		t.Fatalf("unexpected messages: %+v", msgs)
	}
}

func TestHTTPHistoryErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	h := NewHTTPHistory(srv.URL+"/?roomID={roomID}", srv.Client(), nil)
	if _, err := h.FetchHistory(context.Background(), "R1"); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestHTTPHistoryRequiresRoomID(t *testing.T) {
	h := NewHTTPHistory("http://localhost/?roomID={roomID}", nil, nil)
	if _, err := h.FetchHistory(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty room id")
	}
}
