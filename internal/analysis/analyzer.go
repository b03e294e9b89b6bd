package analysis

import (
	"math"
	"sort"

	"github.com/talentops/skills-audit/internal/assessment"
)

// GapType selects which gap column drives the analysis.
type GapType string

const (
	GapPerception GapType = "perception"
	GapMatrix     GapType = "matrix"
)

// Thresholds for classifying per-skill averages.
const (
	strengthThreshold    = 4.0
	developmentThreshold = 2.5
)

// Direction labels attached to significant gaps.
const (
	DirManagerHigher = "Manager rates higher"
	DirSelfHigher    = "Self-rates higher"
	DirAboveStandard = "Above standard"
	DirBelowStandard = "Below standard"
)

// SkillGap is one significant gap on an employee record.
type SkillGap struct {
	Skill     string  `json:"skill"`
	GapValue  float64 `json:"gap_value"`
	Direction string  `json:"direction"`
	GapType   GapType `json:"gap_type"`
}

// SkillRating pairs a skill with its reconciled average rating.
type SkillRating struct {
	Skill  string  `json:"skill"`
	Rating float64 `json:"rating"`
}

// GapRecord is the per-employee gap analysis. It is derived, never a source
// of truth: recompute it from the merged table whenever inputs change.
type GapRecord struct {
	Employee         string        `json:"employee"`
	AvgSkillLevel    float64       `json:"avg_skill_level"`
	AvgGapScore      float64       `json:"avg_gap_score"`
	MaxGap           float64       `json:"max_gap"`
	SignificantGaps  []SkillGap    `json:"significant_gaps"`
	Strengths        []SkillRating `json:"strengths"`
	DevelopmentAreas []SkillRating `json:"development_areas"`
	HasGaps          bool          `json:"has_gaps"`
	GapType          GapType       `json:"gap_type"`
}

// Analyzer computes gap metrics against a caller-supplied significance
// threshold. It holds no table state; every method is a pure function of
// its inputs.
type Analyzer struct {
	Threshold float64
}

// New returns an Analyzer with the given significance threshold.
func New(threshold float64) *Analyzer {
	return &Analyzer{Threshold: threshold}
}

// CalculateGaps derives one GapRecord per employee. Requesting matrix gaps
// on a table merged without a matrix silently falls back to perception
// gaps; the effective choice is visible on each record's GapType. An empty
// table yields an empty slice, never an error.
func (a *Analyzer) CalculateGaps(m *assessment.MergedTable, gapType GapType) []GapRecord {
	if m.Empty() {
		return []GapRecord{}
	}
	if gapType != GapMatrix || !m.HasMatrix {
		gapType = GapPerception
	}

	records := make([]GapRecord, 0, len(m.Rows))
	for _, row := range m.Rows {
		records = append(records, a.analyzeRow(m, row, gapType))
	}
	return records
}

func (a *Analyzer) analyzeRow(m *assessment.MergedTable, row assessment.MergedRow, gapType GapType) GapRecord {
	rec := GapRecord{
		Employee:         row.Employee,
		GapType:          gapType,
		SignificantGaps:  []SkillGap{},
		Strengths:        []SkillRating{},
		DevelopmentAreas: []SkillRating{},
	}

	levelSum, levelN := 0.0, 0
	gapSum, gapN := 0.0, 0

	for _, skill := range m.Skills {
		s := row.Scores[skill]
		if s.Average > 0 {
			levelSum += s.Average
			levelN++
		}

		gap := s.PerceptionGap
		if gapType == GapMatrix {
			gap = s.MatrixGap
		}
		// A 0 gap (including both-sides-unrated) still counts toward the
		// mean: missing ratings read as alignment. Deliberate policy,
		// flagged for product review.
		abs := math.Abs(gap)
		gapSum += abs
		gapN++
		if abs > rec.MaxGap {
			rec.MaxGap = abs
		}
		if abs >= a.Threshold {
			rec.SignificantGaps = append(rec.SignificantGaps, SkillGap{
				Skill:     skill,
				GapValue:  gap,
				Direction: direction(gap, gapType),
				GapType:   gapType,
			})
		}

		if s.Average >= strengthThreshold {
			rec.Strengths = append(rec.Strengths, SkillRating{Skill: skill, Rating: s.Average})
		}
		if s.Average > 0 && s.Average <= developmentThreshold {
			rec.DevelopmentAreas = append(rec.DevelopmentAreas, SkillRating{Skill: skill, Rating: s.Average})
		}
	}

	if levelN > 0 {
		rec.AvgSkillLevel = levelSum / float64(levelN)
	}
	if gapN > 0 {
		rec.AvgGapScore = gapSum / float64(gapN)
	}
	rec.HasGaps = rec.AvgGapScore >= a.Threshold

	sort.SliceStable(rec.SignificantGaps, func(i, j int) bool {
		return math.Abs(rec.SignificantGaps[i].GapValue) > math.Abs(rec.SignificantGaps[j].GapValue)
	})
	sort.SliceStable(rec.Strengths, func(i, j int) bool {
		return rec.Strengths[i].Rating > rec.Strengths[j].Rating
	})
	sort.SliceStable(rec.DevelopmentAreas, func(i, j int) bool {
		return rec.DevelopmentAreas[i].Rating < rec.DevelopmentAreas[j].Rating
	})
	return rec
}

func direction(gap float64, gapType GapType) string {
	if gapType == GapMatrix {
		if gap > 0 {
			return DirAboveStandard
		}
		return DirBelowStandard
	}
	if gap > 0 {
		return DirManagerHigher
	}
	return DirSelfHigher
}
