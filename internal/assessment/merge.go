package assessment

// Score holds the reconciled ratings for one (employee, skill) pair.
// Average covers only the present (>0) sides; PerceptionGap is defined only
// when both sides rated (absence is not a gap). MatrixGap is populated only
// when a matrix was supplied at merge time.
type Score struct {
	Self          float64 `json:"self_rating"`
	Manager       float64 `json:"manager_rating"`
	Average       float64 `json:"average_rating"`
	PerceptionGap float64 `json:"perception_gap"`
	MatrixGap     float64 `json:"matrix_gap,omitempty"`
	RequiredLevel float64 `json:"required_level,omitempty"`
}

// MergedRow is one employee's reconciled record across both sources.
type MergedRow struct {
	Employee   string           `json:"employee"`
	Email      string           `json:"email,omitempty"`
	JobTitle   string           `json:"job_title,omitempty"`
	Department string           `json:"department,omitempty"`
	Scores     map[string]Score `json:"scores"`
}

// MergedTable is the canonical working dataset: one row per employee,
// outer-joined by name, with a score per skill in the union of both sources.
// DefaultedLevels counts matrix lookups that fell through to the default.
type MergedTable struct {
	Skills          []string    `json:"skills"`
	Rows            []MergedRow `json:"rows"`
	HasMatrix       bool        `json:"has_matrix"`
	DefaultedLevels int         `json:"defaulted_levels"`
}

// Empty reports whether the merged table has no employees.
func (m *MergedTable) Empty() bool { return m == nil || len(m.Rows) == 0 }

// SkillIndex returns the encounter-order position of a skill, or -1.
func (m *MergedTable) SkillIndex(skill string) int {
	for i, s := range m.Skills {
		if s == skill {
			return i
		}
	}
	return -1
}

// Merge outer-joins the employee and manager assessments by employee name
// and derives the average, perception-gap and (when a matrix is supplied)
// matrix-gap score for every skill in the union of both tables. A skill
// rated by only one side still participates, with the other side treated as
// absent. Inputs are not mutated.
func Merge(employee, manager *Assessment, matrix *Matrix) (*MergedTable, error) {
	skills := skillUnion(employee, manager)
	if len(skills) == 0 {
		return nil, ErrNoCommonSkills
	}

	out := &MergedTable{Skills: skills, HasMatrix: !matrix.Empty()}

	mgrByName := make(map[string]*Row)
	var mgrOrder []string
	if manager != nil {
		for i := range manager.Rows {
			r := &manager.Rows[i]
			if _, seen := mgrByName[r.Employee]; !seen {
				mgrByName[r.Employee] = r
				mgrOrder = append(mgrOrder, r.Employee)
			}
		}
	}

	seen := make(map[string]bool)
	if employee != nil {
		for i := range employee.Rows {
			self := &employee.Rows[i]
			if seen[self.Employee] {
				continue
			}
			seen[self.Employee] = true
			out.Rows = append(out.Rows, mergeRow(self, mgrByName[self.Employee], skills, matrix, out))
		}
	}
	for _, name := range mgrOrder {
		if seen[name] {
			continue
		}
		seen[name] = true
		out.Rows = append(out.Rows, mergeRow(nil, mgrByName[name], skills, matrix, out))
	}
	return out, nil
}

func mergeRow(self, mgr *Row, skills []string, matrix *Matrix, out *MergedTable) MergedRow {
	row := MergedRow{Scores: make(map[string]Score, len(skills))}

	if self != nil {
		row.Employee = self.Employee
		row.Email = self.Email
		row.JobTitle = self.JobTitle
		row.Department = self.Department
	}
	if mgr != nil {
		if row.Employee == "" {
			row.Employee = mgr.Employee
		}
		if row.Email == "" {
			row.Email = mgr.Email
		}
		if row.JobTitle == "" {
			row.JobTitle = mgr.JobTitle
		}
		if row.Department == "" {
			row.Department = mgr.Department
		}
	}

	for _, skill := range skills {
		var s Score
		if self != nil {
			s.Self = self.Ratings[skill]
		}
		if mgr != nil {
			s.Manager = mgr.Ratings[skill]
		}
		s.Average = averageRating(s.Self, s.Manager)
		if s.Self > 0 && s.Manager > 0 {
			s.PerceptionGap = s.Manager - s.Self
		}
		if !matrix.Empty() {
			level, found := matrix.RequiredLevel(skill, row.JobTitle, row.Department)
			if !found {
				out.DefaultedLevels++
			}
			s.RequiredLevel = level
			s.MatrixGap = s.Average - level
		}
		row.Scores[skill] = s
	}
	return row
}

// averageRating is the mean of only the present (>0) ratings; 0 when both
// sides are absent.
func averageRating(self, mgr float64) float64 {
	sum, n := 0.0, 0
	if self > 0 {
		sum += self
		n++
	}
	if mgr > 0 {
		sum += mgr
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func skillUnion(employee, manager *Assessment) []string {
	var skills []string
	seen := make(map[string]bool)
	add := func(a *Assessment) {
		if a == nil {
			return
		}
		for _, s := range a.Skills {
			if !seen[s] {
				seen[s] = true
				skills = append(skills, s)
			}
		}
	}
	add(employee)
	add(manager)
	return skills
}
