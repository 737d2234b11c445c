package praat

import "strings"

const byteOrderMark = "\ufeff"

// NormalizeLines strips comments, carriage returns and a leading byte order
// mark, then drops lines that are empty or whitespace only.
func NormalizeLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if i == 0 {
			line = strings.TrimPrefix(line, byteOrderMark)
		}
		line = StripComment(strings.TrimSuffix(line, "\r"))
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// StripComment truncates line right before the first '!' that is outside
// every quoted span. A '!' inside a quoted label is kept.
func StripComment(line string) string {
	// Offsets of currently open quotes. A doubled quote inside a label
	// closes and reopens the span, which leaves the parity intact.
	var open []int
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			if len(open) > 0 {
				open = open[:len(open)-1]
			} else {
				open = append(open, i)
			}
		case '!':
			if len(open) == 0 {
				return line[:i]
			}
		}
	}
	return line
}
