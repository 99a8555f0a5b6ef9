package relay

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/haikuchat/internal/store"
)

type memStore struct {
	mu       sync.Mutex
	messages []*store.Message
	last     map[string]string
	saveErr  error
}

func (m *memStore) SaveMessage(_ context.Context, msg *store.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	msg.ID = int64(len(m.messages) + 1)
	m.messages = append(m.messages, msg)
	return nil
}

func (m *memStore) UpdateLastMessage(_ context.Context, roomID, text, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		m.last = make(map[string]string)
	}
	m.last[roomID] = text
	return nil
}

func startHub(t *testing.T, st MessageStore) *Hub {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)

	hub := NewHub(st, nil)
	hub.now = func() time.Time { return time.Date(2024, 1, 1, 9, 5, 0, 0, time.Local) }
	go hub.Run(ctx)
	return hub
}

func TestHubBroadcastIncludesSender(t *testing.T) {
	st := &memStore{}
	hub := startHub(t, st)

	alice := NewClient("c1", "U1", "alice", "R1")
	bob := NewClient("c2", "U2", "bob", "R1")
	carol := NewClient("c3", "U3", "carol", "R2")
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)
	hub.RegisterClient(carol)

	alice.Commands <- &Command{Kind: CommandSendMessage, Message: Message{RoomID: "R1", Text: " an old silent pond "}}

	for _, c := range []*Client{alice, bob} {
		ev := mustEvent(t, c.Events, EventMessage)
		if ev.Message.Text != "an old silent pond" || ev.Message.UserID != "U1" || ev.Message.Username != "alice" {
			t.Fatalf("unexpected message event for %s: %+v", c.Username, ev.Message)
		}
		if ev.Message.Timestamp != "2024-01-01 09:05:00" || ev.Message.ID != 1 {
			t.Fatalf("unexpected stamped message: %+v", ev.Message)
		}
	}
	mustNoEvent(t, carol.Events, 50*time.Millisecond)

	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.messages) != 1 || st.messages[0].Body != "an old silent pond" {
		t.Fatalf("message not persisted: %+v", st.messages)
	}
	if st.last["R1"] != "an old silent pond" {
		t.Fatalf("last message not updated: %v", st.last)
	}
}

func TestHubKeepsClientTimestamp(t *testing.T) {
	hub := startHub(t, nil)

	alice := NewClient("c1", "U1", "", "R1")
	hub.RegisterClient(alice)

	alice.Commands <- &Command{Kind: CommandSendMessage, Message: Message{Text: "hi", Timestamp: "2023-05-01 08:00:00"}}

	ev := mustEvent(t, alice.Events, EventMessage)
	if ev.Message.Timestamp != "2023-05-01 08:00:00" {
		t.Fatalf("client timestamp replaced: %q", ev.Message.Timestamp)
	}
	if ev.Message.Username != "U1" || ev.Message.RoomID != "R1" {
		t.Fatalf("unexpected defaults: %+v", ev.Message)
	}
}

func TestHubRejectsBadCommands(t *testing.T) {
	tests := []struct {
		name string
		cmd  *Command
		code string
	}{
		{name: "empty text", cmd: &Command{Kind: CommandSendMessage, Message: Message{Text: "  "}}, code: ErrCodeBadRequest},
		{name: "other room", cmd: &Command{Kind: CommandSendMessage, Message: Message{RoomID: "R9", Text: "hi"}}, code: ErrCodeBadRequest},
		{name: "unknown action", cmd: &Command{Kind: CommandUnknown, Action: "dance"}, code: ErrCodeUnknownAction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := startHub(t, nil)
			alice := NewClient("c1", "U1", "alice", "R1")
			bob := NewClient("c2", "U2", "bob", "R1")
			hub.RegisterClient(alice)
			hub.RegisterClient(bob)

			alice.Commands <- tt.cmd

			ev := mustEvent(t, alice.Events, EventError)
			if ev.Error == nil || ev.Error.Code != tt.code {
				t.Fatalf("expected %s error, got %+v", tt.code, ev)
			}
			mustNoEvent(t, bob.Events, 50*time.Millisecond)
		})
	}
}

func TestHubSaveFailureIsNotBroadcast(t *testing.T) {
	hub := startHub(t, &memStore{saveErr: context.DeadlineExceeded})

	alice := NewClient("c1", "U1", "alice", "R1")
	hub.RegisterClient(alice)

	alice.Commands <- &Command{Kind: CommandSendMessage, Message: Message{Text: "hi"}}

	ev := mustEvent(t, alice.Events, EventError)
	if ev.Error.Code != ErrCodeInternal {
		t.Fatalf("expected internal error, got %+v", ev.Error)
	}
}

func TestHubUnregisterClosesEvents(t *testing.T) {
	hub := startHub(t, nil)

	alice := NewClient("c1", "U1", "alice", "R1")
	bob := NewClient("c2", "U2", "bob", "R1")
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	hub.UnregisterClient(alice)
	select {
	case _, ok := <-alice.Events:
		if ok {
			t.Fatal("expected closed events channel")
		}
	case <-time.After(time.Second):
		t.Fatal("events channel not closed")
	}

	bob.Commands <- &Command{Kind: CommandSendMessage, Message: Message{Text: "still here"}}
	ev := mustEvent(t, bob.Events, EventMessage)
	if ev.Message.Text != "still here" {
		t.Fatalf("unexpected message: %+v", ev.Message)
	}
}

func TestHubStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil, nil)
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	alice := NewClient("c1", "U1", "alice", "R1")
	if !hub.RegisterClient(alice) {
		t.Fatal("register failed on running hub")
	}
	cancel()
	<-done

	if hub.RegisterClient(NewClient("c2", "U2", "bob", "R1")) {
		t.Fatal("register should fail on stopped hub")
	}
	if _, ok := <-alice.Events; ok {
		t.Fatal("expected events closed on shutdown")
	}
}
