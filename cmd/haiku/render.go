package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/vovakirdan/haikuchat/internal/chat"
	"github.com/vovakirdan/haikuchat/internal/haiku"
)

// formatMessage renders one message for the terminal. Multi-line messages are
// indented under the sender.
func formatMessage(m chat.Message, self string) string {
	if m.Action.IsSystem() {
		return "* " + m.Text
	}

	name := m.DisplayName()
	if m.IsFrom(self) {
		name = "me"
	}
	stamp := ""
	if t, ok := m.Time(); ok {
		stamp = t.Format("15:04") + " "
	}

	prefix := stamp + name + ": "
	lines := strings.Split(strings.ReplaceAll(m.Text, "\r\n", "\n"), "\n")
	indent := strings.Repeat(" ", len(prefix))
	for i := 1; i < len(lines); i++ {
		lines[i] = indent + lines[i]
	}
	return prefix + strings.Join(lines, "\n")
}

// formatFeedback renders per-line counts as "line 2: 3/7".
func formatFeedback(f haiku.Feedback, lines int) string {
	parts := make([]string, 0, lines)
	for i := 0; i < lines && i < haiku.LineCount; i++ {
		l := f.Lines[i]
		mark := ""
		if l.OK() {
			mark = " ✓"
		}
		parts = append(parts, fmt.Sprintf("line %d: %d/%d%s", i+1, l.Syllables, l.Target, mark))
	}
	return "  (" + strings.Join(parts, ", ") + ")"
}

// syncWriter serializes writes from the printing and composing goroutines.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) println(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, line)
}
