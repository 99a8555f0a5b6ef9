package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/haikuchat/internal/chat"
	"github.com/vovakirdan/haikuchat/internal/haiku"
	"github.com/vovakirdan/haikuchat/internal/identity"
)

func TestComposerSendsAfterThirdLine(t *testing.T) {
	var c composer
	for _, line := range []string{"an old silent pond", "a frog jumps into the pond"} {
		if draft, ready := c.add(line); ready {
			t.Fatalf("ready too early with %q", draft)
		}
	}
	draft, ready := c.add("splash! silence again")
	if !ready {
		t.Fatal("expected draft after the third line")
	}
	want := "an old silent pond\na frog jumps into the pond\nsplash! silence again"
	if draft != want {
		t.Fatalf("draft = %q, want %q", draft, want)
	}
	if len(c.lines) != 0 {
		t.Fatalf("composer not reset: %v", c.lines)
	}
}

func TestComposerEmptyLine(t *testing.T) {
	var c composer
	if _, ready := c.add(""); ready {
		t.Fatal("empty line on empty draft must not send")
	}
	c.add("hello there")
	draft, ready := c.add("   ")
	if !ready || draft != "hello there" {
		t.Fatalf("got %q ready=%v", draft, ready)
	}
}

func TestComposerFeedback(t *testing.T) {
	var c composer
	c.add("an old silent pond")
	fb := c.feedback()
	if fb.Lines[0].Syllables != 5 || !fb.Lines[0].OK() {
		t.Fatalf("line 1 = %+v", fb.Lines[0])
	}
	got := formatFeedback(fb, 1)
	if got != "  (line 1: 5/5 ✓)" {
		t.Fatalf("formatFeedback = %q", got)
	}
}

func TestFormatFeedbackLimitsLines(t *testing.T) {
	fb := haiku.Check("one\ntwo")
	got := formatFeedback(fb, 2)
	if strings.Count(got, "line ") != 2 {
		t.Fatalf("formatFeedback = %q", got)
	}
}

func TestFormatMessage(t *testing.T) {
	ts := chat.NewTimestamp(time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local))

	mine := chat.Message{Action: chat.ActionSend, UserID: "u1", Username: "ann", Text: "a\nb", Timestamp: ts}
	if got, want := formatMessage(mine, "u1"), "09:30 me: a\n          b"; got != want {
		t.Fatalf("mine = %q, want %q", got, want)
	}

	theirs := chat.Message{Action: chat.ActionSend, UserID: "u2", Username: "bob", Text: "hi"}
	if got, want := formatMessage(theirs, "u1"), "bob: hi"; got != want {
		t.Fatalf("theirs = %q, want %q", got, want)
	}

	system := chat.Message{Action: "joined", Text: "bob joined"}
	if got, want := formatMessage(system, "u1"), "* bob joined"; got != want {
		t.Fatalf("system = %q, want %q", got, want)
	}
}

func TestComposeReportsRefusedSend(t *testing.T) {
	manager := chat.NewManager(chat.Options{SocketURL: "ftp://relay/{roomID}/{userID}"}, nil)
	session := manager.Connect(context.Background(), identity.Identity{UserID: "u1"}, "ROOM01")
	defer manager.Disconnect()
	if got := session.State().Kind; got != chat.StateClosed {
		t.Fatalf("state = %v, want closed", got)
	}

	var buf bytes.Buffer
	out := &syncWriter{w: &buf}
	lines := make(chan string, 4)
	for _, l := range []string{"an old silent pond", "a frog jumps into the pond", "splash! silence again"} {
		lines <- l
	}
	close(lines)

	if err := compose(context.Background(), out, session, lines); !errors.Is(err, errQuit) {
		t.Fatalf("compose err = %v, want errQuit", err)
	}

	got := buf.String()
	if strings.Count(got, "  (line 1:") != 2 {
		t.Fatalf("expected feedback after lines 1 and 2, got:\n%s", got)
	}
	if !strings.Contains(got, "-- not sent: ") {
		t.Fatalf("expected refused send, got:\n%s", got)
	}
}

func TestReadLinesClosesAtEOF(t *testing.T) {
	lines := make(chan string)
	go readLines(context.Background(), strings.NewReader("one\ntwo\n"), lines)

	var got []string
	for l := range lines {
		got = append(got, l)
	}
	if len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Fatalf("lines = %v", got)
	}
}

func TestReadLinesStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	lines := make(chan string)
	done := make(chan struct{})
	go func() {
		readLines(ctx, strings.NewReader("one\ntwo\nthree\n"), lines)
		close(done)
	}()

	if got := <-lines; got != "one" {
		t.Fatalf("first line = %q", got)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("readLines still blocked after cancel")
	}
}

func TestHistoryPrefixSkipsLiveMessages(t *testing.T) {
	history := []chat.Message{{Text: "h1"}, {Text: "h2"}}
	live := chat.Message{Text: "live"}
	snapshot := append(append([]chat.Message{}, history...), live)

	got := historyPrefix(snapshot, len(history))
	if len(got) != 2 || got[0].Text != "h1" || got[1].Text != "h2" {
		t.Fatalf("historyPrefix = %+v", got)
	}
	if got := historyPrefix(snapshot[:1], 5); len(got) != 1 {
		t.Fatalf("historyPrefix over snapshot length = %+v", got)
	}
	if got := historyPrefix(snapshot, 0); len(got) != 0 {
		t.Fatalf("historyPrefix(0) = %+v", got)
	}
}
