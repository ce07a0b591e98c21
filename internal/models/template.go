package models

import "strings"

// Template names a document shape (e.g. "SRS") and carries the ordered
// heading list the generator is asked to fill. Headings are stored as a
// newline-joined text column.
type Template struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:255;not null;unique" json:"name"`
	Headings string `gorm:"type:text;not null" json:"headings"`
}

// HeadingList splits the stored heading column into its ordered entries,
// dropping blank lines.
func (t *Template) HeadingList() []string {
	var out []string
	for _, line := range strings.Split(t.Headings, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			out = append(out, s)
		}
	}
	return out
}
