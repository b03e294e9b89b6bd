package tabular

import "strings"

// ColumnKind classifies what role a raw column plays in an assessment table.
type ColumnKind int

const (
	KindOther ColumnKind = iota
	KindIdentity
	KindEmail
	KindJobTitle
	KindDepartment
	KindMetadata
	KindSkill
)

// Column describes one classified column of a raw table.
type Column struct {
	Name  string
	Index int
	Kind  ColumnKind
}

// Headers of form-export bookkeeping columns that never hold skill ratings,
// matched case-insensitively after trimming.
var metadataHeaders = map[string]bool{
	"employee":      true,
	"email":         true,
	"timestamp":     true,
	"start time":    true,
	"completion time": true,
	"name":          true,
	"id":            true,
	"submit date":   true,
	"response id":   true,
	"submission id": true,
}

var identityKeywords = []string{"name", "employee", "person"}

// Classify runs the column-classification pass over a raw table. The first
// name-bearing header becomes the identity column, the first email-bearing
// header the email column, and any remaining non-metadata column with at
// least one numeric-coercible value becomes a skill column. Optional
// job-title and department columns are picked up so matrix lookups can key
// on them later.
func Classify(t *Table) []Column {
	cols := make([]Column, len(t.Headers))
	haveIdentity, haveEmail, haveJob, haveDept := false, false, false, false

	for i, h := range t.Headers {
		name := strings.TrimSpace(h)
		lower := strings.ToLower(name)
		c := Column{Name: name, Index: i, Kind: KindOther}

		switch {
		case !haveEmail && strings.Contains(lower, "email"):
			c.Kind = KindEmail
			haveEmail = true
		case !haveIdentity && containsAny(lower, identityKeywords):
			c.Kind = KindIdentity
			haveIdentity = true
		case !haveJob && (strings.Contains(lower, "job title") || strings.Contains(lower, "designation") || lower == "title" || lower == "role"):
			c.Kind = KindJobTitle
			haveJob = true
		case !haveDept && strings.Contains(lower, "department"):
			c.Kind = KindDepartment
			haveDept = true
		case metadataHeaders[lower]:
			c.Kind = KindMetadata
		default:
			if columnHasNumeric(t, i) {
				c.Kind = KindSkill
			}
		}
		cols[i] = c
	}
	return cols
}

// Find returns the first column of the given kind, or nil.
func Find(cols []Column, kind ColumnKind) *Column {
	for i := range cols {
		if cols[i].Kind == kind {
			return &cols[i]
		}
	}
	return nil
}

// Skills returns the skill columns in header order.
func Skills(cols []Column) []Column {
	var out []Column
	for _, c := range cols {
		if c.Kind == KindSkill {
			out = append(out, c)
		}
	}
	return out
}

func columnHasNumeric(t *Table, col int) bool {
	for row := range t.Rows {
		if _, ok := ParseRating(t.Cell(row, col)); ok {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
