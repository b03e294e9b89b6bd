package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/talentops/skills-audit/internal/assessment"
)

// GapSummary counts perception-gap outcomes for one skill across employees.
type GapSummary struct {
	AverageGap      float64 `json:"average_gap"`
	PositiveGaps    int     `json:"positive_gaps"`
	NegativeGaps    int     `json:"negative_gaps"`
	ZeroGaps        int     `json:"zero_gaps"`
	SignificantGaps int     `json:"significant_gaps"`
}

// Distribution describes how one skill's reconciled ratings spread across
// the organization. Median interpolates the two middle elements for
// even-sized samples and StdDev is the sample standard deviation (N-1
// divisor, 0 when fewer than two assessments exist), both matching pandas
// defaults. Histogram buckets ratings rounded to 1..5; unrated (0) rows
// count toward the moments but not the histogram.
type Distribution struct {
	Skill     string      `json:"skill"`
	Count     int         `json:"count"`
	Mean      float64     `json:"mean"`
	Median    float64     `json:"median"`
	StdDev    float64     `json:"std_dev"`
	Min       float64     `json:"min"`
	Max       float64     `json:"max"`
	Histogram [5]int      `json:"histogram"`
	Gaps      *GapSummary `json:"gaps,omitempty"`
}

// SkillDistribution summarizes one skill over the merged table. The second
// return is false when the skill is unknown or the table is empty; no error
// is ever raised here.
func (a *Analyzer) SkillDistribution(m *assessment.MergedTable, skill string) (Distribution, bool) {
	if m.Empty() || m.SkillIndex(skill) < 0 {
		return Distribution{}, false
	}

	values := make([]float64, 0, len(m.Rows))
	gaps := make([]float64, 0, len(m.Rows))
	for _, row := range m.Rows {
		s := row.Scores[skill]
		values = append(values, s.Average)
		gaps = append(gaps, s.PerceptionGap)
	}

	d := Distribution{
		Skill: skill,
		Count: len(values),
		Mean:  stat.Mean(values, nil),
		Min:   floats.Min(values),
		Max:   floats.Max(values),
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	d.Median = median(sorted)
	if len(values) > 1 {
		d.StdDev = stat.StdDev(values, nil)
	}

	for _, v := range values {
		if r := int(math.Round(v)); r >= 1 && r <= 5 {
			d.Histogram[r-1]++
		}
	}

	gs := &GapSummary{AverageGap: stat.Mean(gaps, nil)}
	for _, g := range gaps {
		switch {
		case g > 0:
			gs.PositiveGaps++
		case g < 0:
			gs.NegativeGaps++
		default:
			gs.ZeroGaps++
		}
		if math.Abs(g) >= a.Threshold {
			gs.SignificantGaps++
		}
	}
	d.Gaps = gs
	return d, true
}

// median of a sorted, non-empty slice; even counts average the middle two.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
