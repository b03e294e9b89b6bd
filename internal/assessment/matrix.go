package assessment

import (
	"strings"

	"github.com/talentops/skills-audit/internal/tabular"
)

// DefaultRequiredLevel is assumed for any skill the matrix does not cover.
const DefaultRequiredLevel = 3.0

// MatrixEntry declares the required proficiency for one skill, optionally
// scoped to a job title and/or department. Empty scope fields mean the entry
// applies globally.
type MatrixEntry struct {
	Skill         string  `json:"skill"`
	RequiredLevel float64 `json:"required_level"`
	JobTitle      string  `json:"job_title,omitempty"`
	Department    string  `json:"department,omitempty"`
}

// Matrix is a normalized competency-standards matrix. Skipped counts the
// cells and rows silently excluded during parsing, so the leniency policy
// stays observable.
type Matrix struct {
	Entries []MatrixEntry `json:"entries"`
	Skipped int           `json:"skipped"`
}

// Empty reports whether the matrix holds no entries.
func (m *Matrix) Empty() bool { return m == nil || len(m.Entries) == 0 }

// RequiredLevel resolves the standard for a skill, trying the most specific
// scope first: (job title, department), then job title, then department,
// then any global entry for the skill. The second return is false when the
// lookup fell through to DefaultRequiredLevel.
func (m *Matrix) RequiredLevel(skill, jobTitle, department string) (float64, bool) {
	if m.Empty() {
		return DefaultRequiredLevel, false
	}
	sk := strings.ToLower(strings.TrimSpace(skill))
	jt := strings.ToLower(strings.TrimSpace(jobTitle))
	dp := strings.ToLower(strings.TrimSpace(department))

	type match func(e MatrixEntry) bool
	tries := []match{}
	if jt != "" && dp != "" {
		tries = append(tries, func(e MatrixEntry) bool {
			return strings.ToLower(e.JobTitle) == jt && strings.ToLower(e.Department) == dp
		})
	}
	if jt != "" {
		tries = append(tries, func(e MatrixEntry) bool { return strings.ToLower(e.JobTitle) == jt })
	}
	if dp != "" {
		tries = append(tries, func(e MatrixEntry) bool { return strings.ToLower(e.Department) == dp })
	}
	tries = append(tries, func(e MatrixEntry) bool { return true })

	for _, ok := range tries {
		for _, e := range m.Entries {
			if strings.ToLower(e.Skill) == sk && ok(e) {
				return e.RequiredLevel, true
			}
		}
	}
	return DefaultRequiredLevel, false
}

// NormalizeMatrix standardizes a raw skills-matrix table, auto-detecting
// which of the two supported shapes applies.
//
// Wide format: the first two columns carry job title and department, the
// first data row carries skill names from the third column onward, and
// subsequent rows carry numeric required levels. Long format: one column
// whose header contains "skill" and one whose header contains "level",
// "required" or "target". Cells that fail coercion or fall outside [1,5]
// are skipped, not errors.
func NormalizeMatrix(t *tabular.Table) (*Matrix, error) {
	if t.Empty() {
		return nil, ErrEmptyInput
	}

	if detectWideMatrix(t) {
		start := 1
		if len(t.Rows) == 1 {
			start = 0
		}
		return parseWideMatrix(t, start), nil
	}
	if skillCol, levelCol, ok := findLongColumns(t); ok {
		return parseLongMatrix(t, skillCol, levelCol), nil
	}
	if len(t.Headers) < 3 {
		return nil, ErrInvalidMatrixFormat
	}
	// Headers themselves may be the skill names with levels in every row.
	m := parseWideMatrix(t, 0)
	if m.Empty() {
		return nil, ErrInvalidMatrixFormat
	}
	return m, nil
}

// detectWideMatrix checks whether the first data row looks like a row of
// skill names: at least 2 of the first 5 candidate columns hold non-empty,
// non-numeric text.
func detectWideMatrix(t *tabular.Table) bool {
	if len(t.Headers) < 3 {
		return false
	}
	names := 0
	for col := 2; col < len(t.Headers) && col < 7; col++ {
		cell := t.Cell(0, col)
		if cell == "" || isPlaceholder(cell) {
			continue
		}
		if _, numeric := tabular.ParseRating(cell); !numeric {
			names++
		}
	}
	return names >= 2
}

func parseWideMatrix(t *tabular.Table, start int) *Matrix {
	m := &Matrix{}

	// Skill names come from the first data row, falling back to the header
	// when that row already holds levels (or placeholders) instead of names.
	skillNames := make(map[int]string)
	for col := 2; col < len(t.Headers); col++ {
		name := t.Cell(0, col)
		if _, numeric := tabular.ParseRating(name); numeric || name == "" || isPlaceholder(name) {
			name = strings.TrimSpace(t.Headers[col])
		}
		if name == "" || isPlaceholder(name) {
			continue
		}
		skillNames[col] = name
	}

	appendRow := func(row int) {
		jobTitle := cellOr(t, row, 0, "General")
		department := cellOr(t, row, 1, "General")
		for col := 2; col < len(t.Headers); col++ {
			name, ok := skillNames[col]
			if !ok {
				continue
			}
			level, numeric := tabular.ParseRating(t.Cell(row, col))
			if !numeric || level < 1 || level > maxRating {
				m.Skipped++
				continue
			}
			m.Entries = append(m.Entries, MatrixEntry{
				Skill:         name,
				RequiredLevel: level,
				JobTitle:      jobTitle,
				Department:    department,
			})
		}
	}
	for row := start; row < len(t.Rows); row++ {
		appendRow(row)
	}

	// Mixed shape: a name row that was skipped but data rows that never
	// coerced usually means the headers carry the skill names instead. Retry
	// once with header-derived names and the first row as data.
	if m.Empty() && start > 0 && len(t.Rows) > 0 {
		m.Skipped = 0
		for col := 2; col < len(t.Headers); col++ {
			name := strings.TrimSpace(t.Headers[col])
			if name == "" || isPlaceholder(name) {
				continue
			}
			skillNames[col] = name
		}
		appendRow(0)
	}
	return m
}

func findLongColumns(t *tabular.Table) (skillCol, levelCol int, ok bool) {
	skillCol, levelCol = -1, -1
	for i, h := range t.Headers {
		lower := strings.ToLower(strings.TrimSpace(h))
		switch {
		case skillCol < 0 && strings.Contains(lower, "skill"):
			skillCol = i
		case levelCol < 0 && (strings.Contains(lower, "level") || strings.Contains(lower, "required") || strings.Contains(lower, "target")):
			levelCol = i
		}
	}
	return skillCol, levelCol, skillCol >= 0 && levelCol >= 0
}

func parseLongMatrix(t *tabular.Table, skillCol, levelCol int) *Matrix {
	m := &Matrix{}
	for row := range t.Rows {
		skill := t.Cell(row, skillCol)
		level, numeric := tabular.ParseRating(t.Cell(row, levelCol))
		if skill == "" || !numeric || level < 1 || level > maxRating {
			m.Skipped++
			continue
		}
		m.Entries = append(m.Entries, MatrixEntry{Skill: skill, RequiredLevel: level})
	}
	return m
}

func cellOr(t *tabular.Table, row, col int, def string) string {
	if v := t.Cell(row, col); v != "" {
		return v
	}
	return def
}

func isPlaceholder(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unnamed", "nan", "n/a", "-":
		return true
	}
	return false
}
