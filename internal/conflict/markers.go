package conflict

import (
	"regexp"
	"strings"
)

// Marker prefixes emitted by jj for N-way conflicts.
const (
	MarkerStart    = "<<<<<<<"
	MarkerDiff     = "%%%%%%%"
	MarkerDiffDesc = `\\\\\\\`
	MarkerLiteral  = "+++++++"
	MarkerEnd      = ">>>>>>>"
)

var (
	startPattern = regexp.MustCompile(`^<{7}\s+(?i:conflict)\s+(\d+)\s+(?i:of)\s+(\d+)`)
	endPattern   = regexp.MustCompile(`^>{7}\s+(?i:conflict)\s+\d+\s+(?i:of)\s+\d+\s+(?i:ends)`)
)

// IsStartMarker reports whether line opens a conflict block.
func IsStartMarker(line string) bool {
	return startPattern.MatchString(trimEOL(line))
}

// ContainsConflict reports whether text holds at least one start marker.
// It is used by the raw file scan to avoid parsing files without conflicts.
func ContainsConflict(text string) bool {
	if !strings.Contains(text, MarkerStart) {
		return false
	}
	for _, line := range SplitLines(text) {
		if IsStartMarker(line) {
			return true
		}
	}
	return false
}

// SplitLines splits text into lines that keep their terminators. A line ends
// after "\n" or after a lone "\r"; "\r\n" stays together. Joining the result
// reproduces text exactly.
func SplitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i+1])
			start = i + 1
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				continue
			}
			lines = append(lines, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

// trimEOL strips the line terminator from a raw line.
func trimEOL(line string) string {
	return strings.TrimRight(line, "\r\n")
}

// splitEOL returns the line body and its terminator.
func splitEOL(line string) (string, string) {
	body := trimEOL(line)
	return body, line[len(body):]
}
