package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/haikuchat/internal/haiku"
)

var countCmd = &cobra.Command{
	Use:   "count [text]",
	Short: "Count syllables and check a haiku",
	Long: `Count syllables per line and check the text against the 5-7-5 pattern.
Without arguments the text is read from stdin. Lines are separated by newlines or
by " / ".`,
	RunE: runCount,
}

func runCount(cmd *cobra.Command, args []string) error {
	var text string
	if len(args) > 0 {
		text = strings.ReplaceAll(strings.Join(args, " "), " / ", "\n")
	} else {
		data, err := io.ReadAll(io.LimitReader(os.Stdin, 64<<10))
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	feedback := haiku.Check(text)
	out := cmd.OutOrStdout()
	for _, line := range feedback.Lines {
		fmt.Fprintf(out, "%-40s %s\n", line.Text, lineMark(line))
	}
	if feedback.Valid() {
		fmt.Fprintln(out, "haiku ✓")
		return nil
	}
	fmt.Fprintf(out, "not a haiku (%s)\n", feedback)
	return nil
}

func lineMark(l haiku.Line) string {
	mark := "✗"
	if l.OK() {
		mark = "✓"
	}
	return fmt.Sprintf("%d/%d %s", l.Syllables, l.Target, mark)
}
