package assessment

import "errors"

// Validation errors raised at the normalizer/merger boundary. Cell-level
// anomalies (an unparsable rating, an out-of-range matrix level) are never
// escalated to these; they are defaulted or skipped and counted instead.
var (
	ErrEmptyInput            = errors.New("uploaded table has no rows")
	ErrMissingIdentityColumn = errors.New("no employee name column found: expected a header containing 'name', 'employee', or 'person'")
	ErrNoSkillColumns        = errors.New("no skill assessment columns found: expected columns with numeric ratings")
	ErrInvalidMatrixFormat   = errors.New("skills matrix format not recognized: expected job-title/department columns with skills from the third column, or Skill/Required_Level columns")
	ErrNoCommonSkills        = errors.New("no skills found across employee and manager assessments")
)
