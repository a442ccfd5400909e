package util

import "strings"

// Window returns the 1-based line range [startLine-before, endLine+after]
// clamped to content.
func Window(content string, startLine, endLine, before, after int) []string {
	lines := strings.Split(content, "\n")
	if startLine < 1 {
		startLine = 1
	}
	if endLine < startLine {
		endLine = startLine
	}
	from := max(0, startLine-1-before)
	to := min(len(lines), endLine+after)
	if from >= to {
		return nil
	}
	return lines[from:to]
}
