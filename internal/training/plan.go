package training

import (
	"math"
	"sort"
	"time"

	"github.com/talentops/skills-audit/internal/analysis"
)

// Recommendation is a catalog resource matched to one skill gap.
type Recommendation struct {
	Resource
	Skill    string  `json:"skill"`
	GapValue float64 `json:"gap_value"`
	Priority string  `json:"priority"` // High|Medium|Low
}

// Milestone is one checkpoint on the plan timeline.
type Milestone struct {
	Week        int    `json:"week"`
	Milestone   string `json:"milestone"`
	Deliverable string `json:"deliverable"`
}

// SuccessMetric states the measurable target for one skill.
type SuccessMetric struct {
	Skill             string  `json:"skill"`
	CurrentGap        float64 `json:"current_gap"`
	TargetImprovement float64 `json:"target_improvement"`
	MeasurementMethod string  `json:"measurement_method"`
	TargetTimeline    string  `json:"target_timeline"`
}

// DevelopmentPlan is the composed individual development plan.
type DevelopmentPlan struct {
	EmployeeName         string           `json:"employee_name"`
	PlanCreated          string           `json:"plan_created"`
	PlanDurationWeeks    int              `json:"plan_duration_weeks"`
	TargetCompletion     string           `json:"target_completion"`
	SkillsToDevelop      []string         `json:"skills_to_develop"`
	CurrentStrengths     []string         `json:"current_strengths"`
	ImmediatePriorities  []Recommendation `json:"immediate_priorities"`
	SecondaryDevelopment []Recommendation `json:"secondary_development"`
	SuccessMetrics       []SuccessMetric  `json:"success_metrics"`
	Milestones           []Milestone      `json:"milestones"`
	RecommendedResources []Recommendation `json:"recommended_resources"`
}

// Improvement beyond this many rating points per cycle is not a realistic
// target.
const maxTargetImprovement = 1.5

const recommendationsPerSkill = 3

// Composer builds development plans from gap-analysis output.
type Composer struct {
	now func() time.Time
}

// NewComposer returns a Composer using the wall clock.
func NewComposer() *Composer { return &Composer{now: time.Now} }

// Recommend maps each gap to catalog resources filtered by the proficiency
// tier implied by currentLevel (<=2 Beginner, <=3.5 Intermediate, else
// Advanced, plus All Levels), capped at 3 per skill, prioritized by gap
// magnitude (>=2 High, >=1 Medium, else Low), and sorted by (priority, gap)
// descending.
func (c *Composer) Recommend(gaps []analysis.SkillGap, currentLevel float64) []Recommendation {
	target := targetTier(currentLevel)
	recs := []Recommendation{}

	for _, gap := range gaps {
		magnitude := math.Abs(gap.GapValue)
		perSkill := 0
		for _, r := range resourcesForSkill(gap.Skill) {
			if r.SkillLevel != target && r.SkillLevel != LevelAll {
				continue
			}
			if perSkill >= recommendationsPerSkill {
				break
			}
			perSkill++
			recs = append(recs, Recommendation{
				Resource: r,
				Skill:    gap.Skill,
				GapValue: magnitude,
				Priority: priorityFor(magnitude),
			})
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		pi, pj := priorityRank(recs[i].Priority), priorityRank(recs[j].Priority)
		if pi != pj {
			return pi > pj
		}
		return recs[i].GapValue > recs[j].GapValue
	})
	return recs
}

// CreatePlan composes the full development plan for one employee from their
// significant gaps and strengths over a timeline of timelineWeeks.
func (c *Composer) CreatePlan(employee string, gaps []analysis.SkillGap, strengths []analysis.SkillRating, timelineWeeks int) DevelopmentPlan {
	recs := c.Recommend(gaps, 0)

	start := c.now()
	end := start.Add(time.Duration(timelineWeeks) * 7 * 24 * time.Hour)

	plan := DevelopmentPlan{
		EmployeeName:         employee,
		PlanCreated:          start.Format("2006-01-02"),
		PlanDurationWeeks:    timelineWeeks,
		TargetCompletion:     end.Format("2006-01-02"),
		SkillsToDevelop:      []string{},
		CurrentStrengths:     []string{},
		ImmediatePriorities:  firstN(filterPriority(recs, "High"), 3),
		SecondaryDevelopment: firstN(filterPriority(recs, "Medium"), 3),
		SuccessMetrics:       successMetrics(gaps),
		Milestones:           milestones(timelineWeeks),
		RecommendedResources: recs,
	}
	for _, g := range gaps {
		plan.SkillsToDevelop = append(plan.SkillsToDevelop, g.Skill)
	}
	for _, s := range strengths {
		plan.CurrentStrengths = append(plan.CurrentStrengths, s.Skill)
	}
	return plan
}

func successMetrics(gaps []analysis.SkillGap) []SuccessMetric {
	metrics := []SuccessMetric{}
	for _, g := range gaps {
		current := math.Abs(g.GapValue)
		metrics = append(metrics, SuccessMetric{
			Skill:             g.Skill,
			CurrentGap:        current,
			TargetImprovement: math.Min(current, maxTargetImprovement),
			MeasurementMethod: "Skills assessment score improvement",
			TargetTimeline:    "3 months",
		})
	}
	return metrics
}

func milestones(timelineWeeks int) []Milestone {
	return []Milestone{
		{
			Week:        2,
			Milestone:   "Complete initial skills assessment and select training resources",
			Deliverable: "Development plan agreement with manager",
		},
		{
			Week:        4,
			Milestone:   "Begin primary skills development activities",
			Deliverable: "Training enrollment confirmation",
		},
		{
			Week:        timelineWeeks / 2,
			Milestone:   "Mid-point progress review",
			Deliverable: "Progress assessment and plan adjustment if needed",
		},
		{
			Week:        timelineWeeks - 2,
			Milestone:   "Pre-completion skills assessment",
			Deliverable: "Skills improvement measurement",
		},
		{
			Week:        timelineWeeks,
			Milestone:   "Development plan completion and evaluation",
			Deliverable: "Final assessment and next steps planning",
		},
	}
}

func targetTier(currentLevel float64) string {
	switch {
	case currentLevel <= 2:
		return LevelBeginner
	case currentLevel <= 3.5:
		return LevelIntermediate
	default:
		return LevelAdvanced
	}
}

func priorityFor(magnitude float64) string {
	switch {
	case magnitude >= 2:
		return "High"
	case magnitude >= 1:
		return "Medium"
	default:
		return "Low"
	}
}

func priorityRank(p string) int {
	switch p {
	case "High":
		return 3
	case "Medium":
		return 2
	default:
		return 1
	}
}

func filterPriority(recs []Recommendation, priority string) []Recommendation {
	out := []Recommendation{}
	for _, r := range recs {
		if r.Priority == priority {
			out = append(out, r)
		}
	}
	return out
}

func firstN(recs []Recommendation, n int) []Recommendation {
	if len(recs) > n {
		return recs[:n]
	}
	return recs
}
