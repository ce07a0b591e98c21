package docgen

import "strings"

// sectionSeparator visibly divides the prior text from sections appended by
// a later run.
const sectionSeparator = "\n\n---\n"

// MergeResult reports what Merge produced.
type MergeResult struct {
	// Text is the document to store.
	Text string
	// Added lists the headings of the sections appended to the prior text,
	// in the fresh document's order. Empty when the merge was a no-op.
	Added []string
}

// Merge reconciles a freshly generated document against the latest stored
// version. Sections of fresh whose heading already exists in existing are
// discarded; genuinely new sections are appended after a separator, in the
// fresh document's order. Headings compare case-insensitively. When nothing
// new is found the prior text is returned unchanged, so a heading present in
// version k is always present in version k+1.
func Merge(existing, fresh string) MergeResult {
	if strings.TrimSpace(existing) == "" {
		return MergeResult{Text: fresh}
	}

	seen := HeadingSet(existing)

	var added []Section
	for _, section := range ParseSections(fresh) {
		if _, ok := seen[section.Key()]; ok {
			continue
		}
		added = append(added, section)
	}

	if len(added) == 0 {
		return MergeResult{Text: existing}
	}

	parts := make([]string, 0, len(added))
	headings := make([]string, 0, len(added))
	for _, section := range added {
		parts = append(parts, section.Raw)
		headings = append(headings, section.Heading)
	}

	return MergeResult{
		Text:  strings.TrimSpace(existing) + sectionSeparator + strings.Join(parts, "\n\n"),
		Added: headings,
	}
}
