package assessment

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/talentops/skills-audit/internal/tabular"
)

// Kind distinguishes the two assessment sources.
type Kind string

const (
	KindEmployee Kind = "employee"
	KindManager  Kind = "manager"
)

// Row is one normalized assessment response. Ratings are keyed by skill
// name, clamped to [0,5]; 0 means no response.
type Row struct {
	Employee   string             `json:"employee"`
	Email      string             `json:"email,omitempty"`
	JobTitle   string             `json:"job_title,omitempty"`
	Department string             `json:"department,omitempty"`
	Ratings    map[string]float64 `json:"ratings"`
}

// Assessment is a normalized self- or manager-assessment table. Skills keeps
// the original column encounter order, which downstream sorts use to break
// ties.
type Assessment struct {
	Kind        Kind     `json:"kind"`
	Skills      []string `json:"skills"`
	Rows        []Row    `json:"rows"`
	DroppedRows int      `json:"dropped_rows"`
}

const (
	minRating = 0
	maxRating = 5
)

// Normalize validates and standardizes a raw employee or manager table.
// Employee names are trimmed and title-cased, emails trimmed and lowercased,
// ratings coerced (non-numeric -> 0) and clamped to [0,5]. Rows without an
// employee name are dropped and counted.
func Normalize(t *tabular.Table, kind Kind) (*Assessment, error) {
	if kind != KindEmployee && kind != KindManager {
		return nil, fmt.Errorf("unknown assessment kind %q", kind)
	}
	if t.Empty() {
		return nil, ErrEmptyInput
	}

	cols := tabular.Classify(t)
	identity := tabular.Find(cols, tabular.KindIdentity)
	if identity == nil {
		return nil, ErrMissingIdentityColumn
	}
	skillCols := tabular.Skills(cols)
	if len(skillCols) == 0 {
		return nil, ErrNoSkillColumns
	}

	email := tabular.Find(cols, tabular.KindEmail)
	job := tabular.Find(cols, tabular.KindJobTitle)
	dept := tabular.Find(cols, tabular.KindDepartment)

	a := &Assessment{Kind: kind}
	for _, c := range skillCols {
		a.Skills = append(a.Skills, c.Name)
	}

	for i := range t.Rows {
		name := TitleCase(t.Cell(i, identity.Index))
		if name == "" {
			a.DroppedRows++
			continue
		}
		row := Row{
			Employee: name,
			Ratings:  make(map[string]float64, len(skillCols)),
		}
		if email != nil {
			row.Email = strings.ToLower(t.Cell(i, email.Index))
		}
		if job != nil {
			row.JobTitle = t.Cell(i, job.Index)
		}
		if dept != nil {
			row.Department = t.Cell(i, dept.Index)
		}
		for _, c := range skillCols {
			v, ok := tabular.ParseRating(t.Cell(i, c.Index))
			if !ok {
				v = 0
			}
			row.Ratings[c.Name] = clamp(v, minRating, maxRating)
		}
		a.Rows = append(a.Rows, row)
	}
	return a, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TitleCase upper-cases the first letter of every word and lower-cases the
// rest, treating any non-letter as a word boundary.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
