package haiku

import (
	"fmt"
	"strings"
)

// Pattern is the syllable count required for each line.
var Pattern = [LineCount]int{5, 7, 5}

// Line is the feedback for one line of a haiku draft.
type Line struct {
	Text      string
	Syllables int
	Target    int
}

// OK reports whether the line has exactly its target syllable count.
func (l Line) OK() bool {
	return l.Syllables == l.Target
}

// Feedback is the per-line syllable report for a draft.
type Feedback struct {
	Lines [LineCount]Line
}

// Valid reports whether every line matches the pattern.
func (f Feedback) Valid() bool {
	for _, l := range f.Lines {
		if !l.OK() {
			return false
		}
	}
	return true
}

// String renders the counts as "5/5 6/7 0/5".
func (f Feedback) String() string {
	parts := make([]string, 0, LineCount)
	for _, l := range f.Lines {
		parts = append(parts, fmt.Sprintf("%d/%d", l.Syllables, l.Target))
	}
	return strings.Join(parts, " ")
}

// Check splits text into three lines and counts each one.
func Check(text string) Feedback {
	var f Feedback
	for i, line := range SplitLines(text) {
		f.Lines[i] = Line{
			Text:      line,
			Syllables: CountSyllables(line),
			Target:    Pattern[i],
		}
	}
	return f
}

// IsValid reports whether text is a 5-7-5 haiku. Used for feedback only; nothing
// refuses to send an invalid one.
func IsValid(text string) bool {
	return Check(text).Valid()
}
