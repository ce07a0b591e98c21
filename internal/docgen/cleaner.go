package docgen

import "strings"

// Placeholder is stored when a run produces no usable text at all. A run
// must never persist an empty document.
const Placeholder = "No content generated."

// bulletIndent is the number of leading spaces that equals one bullet
// nesting level.
const bulletIndent = 4

// Clean normalizes raw generated markdown and prefixes a bolded title line.
// It collapses doubled heading markers left by naive concatenation, bolds
// heading text up to level 3, and re-indents bullets in whole nesting steps,
// bolding top-level bullet content that is not already bold.
func Clean(raw, title string) string {
	doc := strings.TrimSpace(raw)

	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}
	doc = strings.Join(lines, "\n")

	return "# **" + title + "**\n\n" + doc
}

func cleanLine(line string) string {
	line = collapseHeadingMarkers(line)

	if hashes, text, ok := splitHeading(line); ok {
		if !strings.HasPrefix(text, "**") {
			text = "**" + text + "**"
		}
		return hashes + " " + text
	}

	return formatBullet(line)
}

// collapseHeadingMarkers rewrites a line that opens with two marker runs
// ("# # 4. ..." from naive concatenation) or an over-deep run ("### x") to a
// single level-2 marker.
func collapseHeadingMarkers(line string) string {
	run1 := countPrefix(line, '#')
	rest := line[run1:]
	gap := countPrefix(rest, ' ')
	run2 := countPrefix(rest[gap:], '#')

	switch {
	case run1 == 0:
		return line
	case run2 > 0:
		return "##" + rest[gap+run2:]
	case run1 >= 2:
		return "##" + rest
	default:
		return line
	}
}

func countPrefix(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

func splitHeading(line string) (hashes, text string, ok bool) {
	n := countPrefix(line, '#')
	if n < 1 || n > 3 {
		return "", "", false
	}
	text = strings.TrimSpace(line[n:])
	if text == "" {
		return "", "", false
	}
	return line[:n], text, true
}

func formatBullet(line string) string {
	stripped := strings.TrimLeft(line, " ")
	if !strings.HasPrefix(stripped, "* ") {
		return line
	}
	level := (len(line) - len(stripped)) / bulletIndent
	content := strings.TrimSpace(stripped[2:])

	if level == 0 {
		if content != "" && !strings.HasPrefix(content, "**") {
			content = "**" + content + "**"
		}
		return "* " + content
	}
	return strings.Repeat(strings.Repeat(" ", bulletIndent), level) + "* " + content
}
