package strings

import (
	"fmt"
	"strings"
)

// DefaultDescriptionMaxLen is the default maximum length for single-line cells in table output.
const DefaultDescriptionMaxLen = 60

// MinTruncateLen is the minimum maxLen value for TruncateDescription.
// Smaller values would not leave room for content plus "...".
const MinTruncateLen = 4

// DefaultSnippetMaxLines bounds log excerpts attached to run reports.
const DefaultSnippetMaxLines = 60

// TruncateDescription truncates a string to maxLen runes and ensures single-line output.
// Whitespace runs (including newlines) collapse to one space and "..." marks truncation.
func TruncateDescription(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}

// TruncateLines keeps at most maxLines lines of text. When lines are dropped a
// trailing marker line reports how many were cut. Every kept line ends with "\n".
func TruncateLines(text string, maxLines int) string {
	if text == "" {
		return ""
	}
	if maxLines < 1 {
		maxLines = 1
	}

	lines := strings.Split(strings.ReplaceAll(strings.TrimRight(text, "\r\n"), "\r\n", "\n"), "\n")

	var b strings.Builder
	for i := 0; i < maxLines && i < len(lines); i++ {
		b.WriteString(lines[i])
		b.WriteByte('\n')
	}
	if len(lines) > maxLines {
		fmt.Fprintf(&b, "... %d more lines truncated ...\n", len(lines)-maxLines)
	}
	return b.String()
}
