// Package vtt turns WebVTT caption tracks into Markdown prose.
package vtt

import "strings"

const timingArrow = "-->"

// ToMarkdown converts a WebVTT document into blank-line separated paragraphs.
// Everything before the first timing line is header and is skipped. Cue text
// lines are joined with single spaces until a timing or blank line ends the
// paragraph. A line that opens a cue block and is directly followed by a
// timing line is a cue identifier and is dropped. Malformed input yields partial or empty output, never an error.
func ToMarkdown(vtt string) string {
	lines := strings.Split(strings.ReplaceAll(vtt, "\r\n", "\n"), "\n")

	start := -1
	for i, line := range lines {
		if isTiming(line) {
			start = i
			break
		}
	}
	if start < 0 {
		return ""
	}

	var (
		paragraphs []string
		buf        []string
	)
	flush := func() {
		if len(buf) > 0 {
			paragraphs = append(paragraphs, strings.Join(buf, " "))
			buf = buf[:0]
		}
	}
	blockStart := true
	for i := start; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			flush()
			blockStart = true
			continue
		}
		if isTiming(line) {
			flush()
			blockStart = false
			continue
		}
		if blockStart && i+1 < len(lines) && isTiming(lines[i+1]) {
			blockStart = false
			continue
		}
		blockStart = false
		buf = append(buf, line)
	}
	flush()
	return strings.TrimSpace(strings.Join(paragraphs, "\n\n"))
}

func isTiming(line string) bool {
	return strings.Contains(line, timingArrow)
}
