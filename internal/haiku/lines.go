package haiku

import "strings"

// LineCount is the number of lines in a haiku.
const LineCount = 3

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// SplitLines returns the first three lines of text. Lines the user has not typed yet
// are empty, lines after the third are dropped.
func SplitLines(text string) [LineCount]string {
	var out [LineCount]string
	parts := strings.Split(lineBreaks.Replace(text), "\n")
	copy(out[:], parts)
	return out
}

// ClampLines limits input box text to three lines. Anything after the third line,
// including a line break typed at the end of it, is cut off. Line endings are
// normalized to "\n".
func ClampLines(text string) string {
	text = lineBreaks.Replace(text)
	parts := strings.Split(text, "\n")
	if len(parts) <= LineCount {
		return text
	}
	return strings.Join(parts[:LineCount], "\n")
}
