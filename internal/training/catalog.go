package training

import "strings"

// Resource is one training offering in the catalog.
type Resource struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Provider    string `json:"provider"`
	Duration    string `json:"duration"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description"`
	SkillLevel  string `json:"skill_level"` // Beginner|Intermediate|Advanced|All Levels
}

// Proficiency tiers a resource can target.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
	LevelAll          = "All Levels"
)

// defaultCatalog maps skill categories to their stock resources.
var defaultCatalog = map[string][]Resource{
	"Communication": {
		{
			Title:       "Effective Communication Fundamentals",
			Type:        "Free Online Course",
			Provider:    "Coursera",
			Duration:    "4 weeks",
			URL:         "https://www.coursera.org/learn/communication",
			Description: "Learn the basics of effective workplace communication",
			SkillLevel:  LevelBeginner,
		},
		{
			Title:       "Public Speaking Mastery",
			Type:        "Video Series",
			Provider:    "YouTube - TED",
			Duration:    "2 hours",
			URL:         "https://www.youtube.com/results?search_query=ted+talks+public+speaking",
			Description: "Collection of TED talks on public speaking techniques",
			SkillLevel:  LevelIntermediate,
		},
		{
			Title:       "Business Writing Workshop",
			Type:        "Internal Training",
			Provider:    "Internal",
			Duration:    "1 day",
			Description: "Company-specific business writing standards and practices",
			SkillLevel:  LevelAll,
		},
	},
	"Leadership": {
		{
			Title:       "Leadership Principles",
			Type:        "Free Online Course",
			Provider:    "edX",
			Duration:    "6 weeks",
			URL:         "https://www.edx.org/course/leadership",
			Description: "Fundamental leadership skills and principles",
			SkillLevel:  LevelBeginner,
		},
		{
			Title:       "Managing Teams Effectively",
			Type:        "Webinar Series",
			Provider:    "LinkedIn Learning",
			Duration:    "3 hours",
			Description: "Best practices for team management and motivation",
			SkillLevel:  LevelIntermediate,
		},
		{
			Title:       "Executive Leadership Program",
			Type:        "Internal Training",
			Provider:    "Internal",
			Duration:    "3 months",
			Description: "Comprehensive leadership development program",
			SkillLevel:  LevelAdvanced,
		},
	},
	"Technical Skills": {
		{
			Title:       "Introduction to Data Analysis",
			Type:        "Free Online Course",
			Provider:    "Khan Academy",
			Duration:    "4 weeks",
			URL:         "https://www.khanacademy.org/math/statistics-probability",
			Description: "Basic data analysis and statistics",
			SkillLevel:  LevelBeginner,
		},
		{
			Title:       "Programming Fundamentals",
			Type:        "Interactive Course",
			Provider:    "Codecademy",
			Duration:    "8 weeks",
			URL:         "https://www.codecademy.com/",
			Description: "Learn programming basics",
			SkillLevel:  LevelBeginner,
		},
		{
			Title:       "Advanced Technical Training",
			Type:        "Internal Training",
			Provider:    "Internal",
			Duration:    "2 weeks",
			Description: "Role-specific technical skills development",
			SkillLevel:  LevelAdvanced,
		},
	},
	"Project Management": {
		{
			Title:       "Project Management Basics",
			Type:        "Free Online Course",
			Provider:    "Google Career Certificates",
			Duration:    "6 months",
			URL:         "https://grow.google/certificates/project-management/",
			Description: "Comprehensive project management fundamentals",
			SkillLevel:  LevelBeginner,
		},
		{
			Title:       "Agile Methodology",
			Type:        "Workshop",
			Provider:    "Internal",
			Duration:    "2 days",
			Description: "Agile project management practices",
			SkillLevel:  LevelIntermediate,
		},
	},
	"Problem Solving": {
		{
			Title:       "Critical Thinking Course",
			Type:        "Free Online Course",
			Provider:    "FutureLearn",
			Duration:    "3 weeks",
			URL:         "https://www.futurelearn.com/courses/critical-thinking",
			Description: "Develop critical thinking and problem-solving skills",
			SkillLevel:  LevelAll,
		},
		{
			Title:       "Design Thinking Workshop",
			Type:        "Internal Training",
			Provider:    "Internal",
			Duration:    "1 day",
			Description: "Human-centered problem solving approach",
			SkillLevel:  LevelIntermediate,
		},
	},
}

// synonymMappings routes free-form skill headers to catalog categories by
// substring match. Ordered so matching stays deterministic.
var synonymMappings = []struct{ key, category string }{
	{"communication skills", "Communication"},
	{"verbal communication", "Communication"},
	{"written communication", "Communication"},
	{"leadership skills", "Leadership"},
	{"team leadership", "Leadership"},
	{"management", "Leadership"},
	{"technical expertise", "Technical Skills"},
	{"technology", "Technical Skills"},
	{"computer skills", "Technical Skills"},
	{"project coordination", "Project Management"},
	{"project planning", "Project Management"},
	{"analytical thinking", "Problem Solving"},
	{"critical thinking", "Problem Solving"},
	{"decision making", "Problem Solving"},
}

// resourcesForSkill resolves catalog entries for a skill: exact category
// match first, then synonym-based fuzzy matching, else a generic placeholder
// so every gap gets at least one recommendation.
func resourcesForSkill(skill string) []Resource {
	if rs, ok := defaultCatalog[skill]; ok {
		return rs
	}
	lower := strings.ToLower(skill)
	for _, m := range synonymMappings {
		if strings.Contains(lower, m.key) || strings.Contains(m.key, lower) {
			if rs, ok := defaultCatalog[m.category]; ok {
				return rs
			}
		}
	}
	return []Resource{{
		Title:       skill + " Development Plan",
		Type:        "Custom Training",
		Provider:    "Internal",
		Duration:    "Varies",
		Description: "Customized development plan for " + skill,
		SkillLevel:  LevelAll,
	}}
}
