// Package docgen holds the text-level machinery of the documentation
// pipeline: normalizing raw model output into presentable markdown, slicing
// a document into heading-delimited sections, and merging a fresh document
// into the latest stored version without ever dropping a heading.
//
// Structure is inferred from markup conventions (a section starts at a
// level-2 heading line) rather than a typed document tree. ParseSections is
// the single place that convention lives, so it can be swapped without
// touching the merge algorithm.
package docgen

import "strings"

// Section is one heading-delimited block of a document. Raw is the full
// section text including its heading line; Heading is the display text with
// markers and bold wrappers removed.
type Section struct {
	Heading string
	Raw     string
}

// Key returns the identity of the section used for merge comparisons:
// the heading text, case-folded.
func (s Section) Key() string {
	return strings.ToLower(s.Heading)
}

// isSectionStart reports whether the line opens a new level-2 section.
// Deeper headings (###) belong to the body of the enclosing section.
func isSectionStart(line string) bool {
	return strings.HasPrefix(line, "## ") && !strings.HasPrefix(line, "###")
}

// headingText extracts the display text of a heading line, dropping the
// marker and any bold wrapper added by Clean.
func headingText(line string) string {
	text := strings.TrimSpace(strings.TrimLeft(line, "#"))
	if strings.HasPrefix(text, "**") && strings.HasSuffix(text, "**") && len(text) > 4 {
		text = text[2 : len(text)-2]
	}
	return strings.TrimSpace(text)
}

// ParseSections splits text into its ordered level-2 sections. Anything
// before the first section marker (the title block) is not returned; callers
// that need it keep the original text.
func ParseSections(text string) []Section {
	var (
		sections []Section
		current  []string
		heading  string
		open     bool
	)
	flush := func() {
		if !open {
			return
		}
		raw := strings.TrimSpace(strings.Join(current, "\n"))
		if raw != "" {
			sections = append(sections, Section{Heading: heading, Raw: raw})
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if isSectionStart(line) {
			flush()
			heading = headingText(line)
			current = []string{line}
			open = true
			continue
		}
		if open {
			current = append(current, line)
		}
	}
	flush()
	return sections
}

// HeadingSet returns the case-folded heading keys present in text.
func HeadingSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, line := range strings.Split(text, "\n") {
		if isSectionStart(line) {
			set[strings.ToLower(headingText(line))] = struct{}{}
		}
	}
	return set
}
