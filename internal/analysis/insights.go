package analysis

import (
	"sort"

	"github.com/talentops/skills-audit/internal/assessment"
)

// Cutoff between organization-wide strengths and gaps.
const orgStrengthThreshold = 3.5

// SkillAverage is the organization-wide view of one skill.
type SkillAverage struct {
	Skill         string  `json:"skill"`
	AverageRating float64 `json:"average_rating"`
	EmployeeCount int     `json:"employee_count"`
}

// Performer ranks one employee by their mean positive skill average.
type Performer struct {
	Employee     string  `json:"employee"`
	AverageSkill float64 `json:"average_skill"`
}

// OrganizationInsights is the derived org-wide rollup, recomputed on demand.
type OrganizationInsights struct {
	TotalEmployees int            `json:"total_employees"`
	SkillsAssessed int            `json:"skills_assessed"`
	SkillStrengths []SkillAverage `json:"overall_skill_strengths"`
	SkillGaps      []SkillAverage `json:"overall_skill_gaps"`
	HighPerformers []Performer    `json:"high_performers"`
}

// OrganizationInsights aggregates the merged table across employees. Skills
// average >= 3.5 over assessed employees are strengths (sorted descending),
// the rest gaps (ascending). High performers are the top ceil(N/5) of
// ranked employees, at least one, ties keeping original row order. An empty
// table yields the zero value.
func (a *Analyzer) OrganizationInsights(m *assessment.MergedTable) OrganizationInsights {
	out := OrganizationInsights{
		SkillStrengths: []SkillAverage{},
		SkillGaps:      []SkillAverage{},
		HighPerformers: []Performer{},
	}
	if m.Empty() {
		return out
	}
	out.TotalEmployees = len(m.Rows)
	out.SkillsAssessed = len(m.Skills)

	for _, skill := range m.Skills {
		sum, n := 0.0, 0
		for _, row := range m.Rows {
			if avg := row.Scores[skill].Average; avg > 0 {
				sum += avg
				n++
			}
		}
		if n == 0 {
			continue
		}
		sa := SkillAverage{Skill: skill, AverageRating: sum / float64(n), EmployeeCount: n}
		if sa.AverageRating >= orgStrengthThreshold {
			out.SkillStrengths = append(out.SkillStrengths, sa)
		} else {
			out.SkillGaps = append(out.SkillGaps, sa)
		}
	}
	sort.SliceStable(out.SkillStrengths, func(i, j int) bool {
		return out.SkillStrengths[i].AverageRating > out.SkillStrengths[j].AverageRating
	})
	sort.SliceStable(out.SkillGaps, func(i, j int) bool {
		return out.SkillGaps[i].AverageRating < out.SkillGaps[j].AverageRating
	})

	ranked := make([]Performer, 0, len(m.Rows))
	for _, row := range m.Rows {
		sum, n := 0.0, 0
		for _, skill := range m.Skills {
			if avg := row.Scores[skill].Average; avg > 0 {
				sum += avg
				n++
			}
		}
		if n > 0 {
			ranked = append(ranked, Performer{Employee: row.Employee, AverageSkill: sum / float64(n)})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AverageSkill > ranked[j].AverageSkill
	})
	if len(ranked) > 0 {
		out.HighPerformers = ranked[:topQuintile(len(ranked))]
	}
	return out
}

// topQuintile is ceil(n/5), at least 1.
func topQuintile(n int) int {
	q := (n + 4) / 5
	if q < 1 {
		q = 1
	}
	return q
}
