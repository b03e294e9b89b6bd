package export

import (
	"fmt"
	"io"

	"github.com/360EntSecGroup-Skylar/excelize"

	"github.com/talentops/skills-audit/internal/analysis"
	"github.com/talentops/skills-audit/internal/assessment"
)

const (
	sheetMerged        = "Merged Data"
	sheetGapSummary    = "Gap Summary"
	sheetDistributions = "Skill Distributions"
)

// WriteWorkbook renders the three-sheet export: the flat merged data, the
// gap summary with list fields comma-joined, and the per-skill distribution
// summary.
func WriteWorkbook(w io.Writer, m *assessment.MergedTable, records []analysis.GapRecord, dists []analysis.Distribution) error {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheetMerged)
	f.NewSheet(sheetGapSummary)
	f.NewSheet(sheetDistributions)

	writeMergedSheet(f, m)
	writeGapSheet(f, records)
	writeDistributionSheet(f, dists)

	return f.Write(w)
}

func writeMergedSheet(f *excelize.File, m *assessment.MergedTable) {
	for col, h := range mergedHeader {
		f.SetCellValue(sheetMerged, cellName(col+1, 1), h)
	}
	rowNum := 2
	for _, row := range m.Rows {
		for _, skill := range m.Skills {
			sc := row.Scores[skill]
			cells := []interface{}{
				row.Employee, row.Email, row.JobTitle, row.Department, skill,
				sc.Self, sc.Manager, sc.Average, sc.PerceptionGap,
			}
			if m.HasMatrix {
				cells = append(cells, sc.MatrixGap, sc.RequiredLevel)
			}
			for col, v := range cells {
				f.SetCellValue(sheetMerged, cellName(col+1, rowNum), v)
			}
			rowNum++
		}
	}
}

func writeGapSheet(f *excelize.File, records []analysis.GapRecord) {
	headers := []string{
		"Employee", "Gap Type", "Avg Skill Level", "Avg Gap Score", "Max Gap",
		"Significant Gaps", "Has Gaps", "Gap Skills", "Strengths", "Development Areas",
	}
	for col, h := range headers {
		f.SetCellValue(sheetGapSummary, cellName(col+1, 1), h)
	}
	for i, rec := range records {
		cells := []interface{}{
			rec.Employee, string(rec.GapType),
			rec.AvgSkillLevel, rec.AvgGapScore, rec.MaxGap,
			len(rec.SignificantGaps), rec.HasGaps,
			joinGapSkills(rec.SignificantGaps),
			joinRatingSkills(rec.Strengths),
			joinRatingSkills(rec.DevelopmentAreas),
		}
		for col, v := range cells {
			f.SetCellValue(sheetGapSummary, cellName(col+1, i+2), v)
		}
	}
}

func writeDistributionSheet(f *excelize.File, dists []analysis.Distribution) {
	headers := []string{
		"Skill", "Assessments", "Mean", "Median", "Std Dev", "Min", "Max",
		"Rating 1", "Rating 2", "Rating 3", "Rating 4", "Rating 5",
		"Positive Gaps", "Negative Gaps", "Zero Gaps", "Significant Gaps",
	}
	for col, h := range headers {
		f.SetCellValue(sheetDistributions, cellName(col+1, 1), h)
	}
	for i, d := range dists {
		cells := []interface{}{
			d.Skill, d.Count, d.Mean, d.Median, d.StdDev, d.Min, d.Max,
			d.Histogram[0], d.Histogram[1], d.Histogram[2], d.Histogram[3], d.Histogram[4],
		}
		if d.Gaps != nil {
			cells = append(cells, d.Gaps.PositiveGaps, d.Gaps.NegativeGaps, d.Gaps.ZeroGaps, d.Gaps.SignificantGaps)
		}
		for col, v := range cells {
			f.SetCellValue(sheetDistributions, cellName(col+1, i+2), v)
		}
	}
}

func cellName(col, row int) string {
	colStr := ""
	for col > 0 {
		col--
		colStr = string(rune('A'+col%26)) + colStr
		col /= 26
	}
	return fmt.Sprintf("%s%d", colStr, row)
}
