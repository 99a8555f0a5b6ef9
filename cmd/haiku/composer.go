package main

import (
	"strings"

	"github.com/vovakirdan/haikuchat/internal/haiku"
)

// composer collects typed lines into a haiku draft.
type composer struct {
	lines []string
}

// add appends a line. The draft is ready after the third line, or when an empty
// line ends a non-empty draft. A ready draft is returned and the composer resets.
func (c *composer) add(line string) (draft string, ready bool) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		if len(c.lines) == 0 {
			return "", false
		}
		return c.flush(), true
	}

	c.lines = append(c.lines, line)
	if len(c.lines) == haiku.LineCount {
		return c.flush(), true
	}
	return "", false
}

func (c *composer) draft() string {
	return strings.Join(c.lines, "\n")
}

func (c *composer) feedback() haiku.Feedback {
	return haiku.Check(c.draft())
}

func (c *composer) flush() string {
	draft := c.draft()
	c.lines = c.lines[:0]
	return draft
}
