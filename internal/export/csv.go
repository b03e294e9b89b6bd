package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/talentops/skills-audit/internal/analysis"
	"github.com/talentops/skills-audit/internal/assessment"
)

var mergedHeader = []string{
	"Employee", "Email", "Job_Title", "Department", "Skill",
	"Self_Rating", "Manager_Rating", "Average_Rating", "Perception_Gap",
	"Matrix_Gap", "Required_Level",
}

// WriteMergedCSV flattens the merged table to one row per (employee, skill).
// Matrix columns are left empty when the table was merged without a matrix.
func WriteMergedCSV(w io.Writer, m *assessment.MergedTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(mergedHeader); err != nil {
		return err
	}
	for _, row := range m.Rows {
		for _, skill := range m.Skills {
			sc := row.Scores[skill]
			rec := []string{
				row.Employee, row.Email, row.JobTitle, row.Department, skill,
				num(sc.Self), num(sc.Manager), num(sc.Average), num(sc.PerceptionGap),
				"", "",
			}
			if m.HasMatrix {
				rec[9] = num(sc.MatrixGap)
				rec[10] = num(sc.RequiredLevel)
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadMergedCSV rebuilds a merged table from the flat shape WriteMergedCSV
// produces. Round-tripping preserves every (employee, skill) score.
func ReadMergedCSV(r io.Reader) (*assessment.MergedTable, error) {
	cr := csv.NewReader(r)
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) < 1 {
		return nil, fmt.Errorf("merged csv: missing header")
	}
	if got := strings.Join(recs[0], ","); got != strings.Join(mergedHeader, ",") {
		return nil, fmt.Errorf("merged csv: unexpected header %q", got)
	}

	m := &assessment.MergedTable{}
	byName := map[string]int{}
	seenSkill := map[string]bool{}
	for _, rec := range recs[1:] {
		if len(rec) != len(mergedHeader) {
			return nil, fmt.Errorf("merged csv: want %d fields, got %d", len(mergedHeader), len(rec))
		}
		name, skill := rec[0], rec[4]
		var sc assessment.Score
		if sc.Self, err = parseNum(rec[5]); err != nil {
			return nil, err
		}
		if sc.Manager, err = parseNum(rec[6]); err != nil {
			return nil, err
		}
		if sc.Average, err = parseNum(rec[7]); err != nil {
			return nil, err
		}
		if sc.PerceptionGap, err = parseNum(rec[8]); err != nil {
			return nil, err
		}
		if rec[9] != "" {
			if sc.MatrixGap, err = parseNum(rec[9]); err != nil {
				return nil, err
			}
			if sc.RequiredLevel, err = parseNum(rec[10]); err != nil {
				return nil, err
			}
			m.HasMatrix = true
		}

		ri, ok := byName[name]
		if !ok {
			ri = len(m.Rows)
			byName[name] = ri
			m.Rows = append(m.Rows, assessment.MergedRow{
				Employee: name, Email: rec[1], JobTitle: rec[2], Department: rec[3],
				Scores: map[string]assessment.Score{},
			})
		}
		m.Rows[ri].Scores[skill] = sc
		if !seenSkill[skill] {
			seenSkill[skill] = true
			m.Skills = append(m.Skills, skill)
		}
	}
	return m, nil
}

// WriteGapSummaryCSV flattens gap records to one row per (employee,
// gap_type), with list fields comma-joined into single cells.
func WriteGapSummaryCSV(w io.Writer, records []analysis.GapRecord) error {
	cw := csv.NewWriter(w)
	header := []string{
		"Employee", "Gap_Type", "Avg_Skill_Level", "Avg_Gap_Score", "Max_Gap",
		"Significant_Gaps_Count", "Has_Gaps", "Significant_Gaps", "Strengths", "Development_Areas",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write([]string{
			rec.Employee, string(rec.GapType),
			num(rec.AvgSkillLevel), num(rec.AvgGapScore), num(rec.MaxGap),
			strconv.Itoa(len(rec.SignificantGaps)), strconv.FormatBool(rec.HasGaps),
			joinGapSkills(rec.SignificantGaps), joinRatingSkills(rec.Strengths), joinRatingSkills(rec.DevelopmentAreas),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func joinGapSkills(gaps []analysis.SkillGap) string {
	names := make([]string, len(gaps))
	for i, g := range gaps {
		names[i] = g.Skill
	}
	return strings.Join(names, ", ")
}

func joinRatingSkills(ratings []analysis.SkillRating) string {
	names := make([]string, len(ratings))
	for i, r := range ratings {
		names[i] = r.Skill
	}
	return strings.Join(names, ", ")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseNum(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("merged csv: bad number %q", s)
	}
	return v, nil
}
