package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/talentops/skills-audit/internal/analysis"
	"github.com/talentops/skills-audit/internal/assessment"
)

// SQLStore persists audit data through database/sql; works against both the
// sqlite and postgres drivers.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) SaveAssessment(ctx context.Context, sessionID string, a *assessment.Assessment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM assessments WHERE session_id=$1 AND kind=$2`, sessionID, string(a.Kind)); err != nil {
		return err
	}

	now := time.Now().Unix()
	skillIdx := make(map[string]int, len(a.Skills))
	for i, sk := range a.Skills {
		skillIdx[sk] = i
	}
	for _, row := range a.Rows {
		for skill, rating := range row.Ratings {
			if rating <= 0 {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO assessments (session_id,employee_name,email,job_title,department,kind,skill_name,skill_idx,rating,created_at)
				 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
				 ON CONFLICT (session_id,employee_name,kind,skill_name)
				 DO UPDATE SET rating=EXCLUDED.rating, email=EXCLUDED.email, job_title=EXCLUDED.job_title, department=EXCLUDED.department`,
				sessionID, row.Employee, row.Email, row.JobTitle, row.Department,
				string(a.Kind), skill, skillIdx[skill], rating, now); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (s *SQLStore) LoadAssessment(ctx context.Context, sessionID string, kind assessment.Kind) (*assessment.Assessment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT employee_name,email,job_title,department,skill_name,skill_idx,rating
		 FROM assessments WHERE session_id=$1 AND kind=$2
		 ORDER BY employee_name, skill_idx`, sessionID, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	a := &assessment.Assessment{Kind: kind}
	byName := map[string]int{}
	skillOrder := map[string]int{}
	for rows.Next() {
		var name, email, job, dept, skill string
		var idx int
		var rating float64
		if err := rows.Scan(&name, &email, &job, &dept, &skill, &idx, &rating); err != nil {
			return nil, err
		}
		ri, ok := byName[name]
		if !ok {
			ri = len(a.Rows)
			byName[name] = ri
			a.Rows = append(a.Rows, assessment.Row{
				Employee: name, Email: email, JobTitle: job, Department: dept,
				Ratings: map[string]float64{},
			})
		}
		a.Rows[ri].Ratings[skill] = rating
		if _, ok := skillOrder[skill]; !ok {
			skillOrder[skill] = idx
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(a.Rows) == 0 {
		return nil, fmt.Errorf("%s assessment for session %s: %w", kind, sessionID, ErrNotFound)
	}
	a.Skills = orderedSkills(skillOrder)
	// Absent ratings read back as 0, same as a non-response in the upload.
	for i := range a.Rows {
		for _, sk := range a.Skills {
			if _, ok := a.Rows[i].Ratings[sk]; !ok {
				a.Rows[i].Ratings[sk] = 0
			}
		}
	}
	return a, nil
}

func (s *SQLStore) SaveMatrix(ctx context.Context, sessionID string, m *assessment.Matrix) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM skills_matrix WHERE session_id=$1`, sessionID); err != nil {
		return err
	}
	now := time.Now().Unix()
	for _, e := range m.Entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO skills_matrix (session_id,skill_name,job_title,department,required_level,created_at)
			 VALUES ($1,$2,$3,$4,$5,$6)
			 ON CONFLICT (session_id,skill_name,job_title,department)
			 DO UPDATE SET required_level=EXCLUDED.required_level`,
			sessionID, e.Skill, e.JobTitle, e.Department, e.RequiredLevel, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) LoadMatrix(ctx context.Context, sessionID string) (*assessment.Matrix, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT skill_name,job_title,department,required_level
		 FROM skills_matrix WHERE session_id=$1
		 ORDER BY skill_name, job_title, department`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := &assessment.Matrix{}
	for rows.Next() {
		var e assessment.MatrixEntry
		if err := rows.Scan(&e.Skill, &e.JobTitle, &e.Department, &e.RequiredLevel); err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if m.Empty() {
		return nil, fmt.Errorf("skills matrix for session %s: %w", sessionID, ErrNotFound)
	}
	return m, nil
}

func (s *SQLStore) SaveMerged(ctx context.Context, sessionID string, m *assessment.MergedTable) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM merged_assessments WHERE session_id=$1`, sessionID); err != nil {
		return err
	}
	now := time.Now().Unix()
	for rowIdx, row := range m.Rows {
		for skillIdx, skill := range m.Skills {
			sc := row.Scores[skill]
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO merged_assessments
				 (session_id,employee_name,email,job_title,department,skill_name,skill_idx,row_idx,
				  self_rating,manager_rating,average_rating,perception_gap,matrix_gap,has_matrix_gap,required_level,created_at)
				 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
				 ON CONFLICT (session_id,employee_name,skill_name)
				 DO UPDATE SET email=EXCLUDED.email, job_title=EXCLUDED.job_title, department=EXCLUDED.department,
				   skill_idx=EXCLUDED.skill_idx, row_idx=EXCLUDED.row_idx,
				   self_rating=EXCLUDED.self_rating, manager_rating=EXCLUDED.manager_rating,
				   average_rating=EXCLUDED.average_rating, perception_gap=EXCLUDED.perception_gap,
				   matrix_gap=EXCLUDED.matrix_gap, has_matrix_gap=EXCLUDED.has_matrix_gap,
				   required_level=EXCLUDED.required_level`,
				sessionID, row.Employee, row.Email, row.JobTitle, row.Department, skill, skillIdx, rowIdx,
				sc.Self, sc.Manager, sc.Average, sc.PerceptionGap, sc.MatrixGap, m.HasMatrix, sc.RequiredLevel, now); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (s *SQLStore) LoadMerged(ctx context.Context, sessionID string) (*assessment.MergedTable, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT employee_name,email,job_title,department,skill_name,skill_idx,row_idx,
		        self_rating,manager_rating,average_rating,perception_gap,matrix_gap,has_matrix_gap,required_level
		 FROM merged_assessments WHERE session_id=$1
		 ORDER BY row_idx, skill_idx`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := &assessment.MergedTable{}
	byName := map[string]int{}
	skillOrder := map[string]int{}
	for rows.Next() {
		var name, email, job, dept, skill string
		var skillIdx, rowIdx int
		var sc assessment.Score
		var hasMatrix bool
		if err := rows.Scan(&name, &email, &job, &dept, &skill, &skillIdx, &rowIdx,
			&sc.Self, &sc.Manager, &sc.Average, &sc.PerceptionGap, &sc.MatrixGap, &hasMatrix, &sc.RequiredLevel); err != nil {
			return nil, err
		}
		ri, ok := byName[name]
		if !ok {
			ri = len(m.Rows)
			byName[name] = ri
			m.Rows = append(m.Rows, assessment.MergedRow{
				Employee: name, Email: email, JobTitle: job, Department: dept,
				Scores: map[string]assessment.Score{},
			})
		}
		m.Rows[ri].Scores[skill] = sc
		if _, ok := skillOrder[skill]; !ok {
			skillOrder[skill] = skillIdx
		}
		if hasMatrix {
			m.HasMatrix = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if m.Empty() {
		return nil, fmt.Errorf("merged table for session %s: %w", sessionID, ErrNotFound)
	}
	m.Skills = orderedSkills(skillOrder)
	return m, nil
}

func (s *SQLStore) SaveGapRecords(ctx context.Context, sessionID string, records []analysis.GapRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	gapType := string(records[0].GapType)
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM gap_analysis WHERE session_id=$1 AND gap_type=$2`, sessionID, gapType); err != nil {
		return err
	}
	now := time.Now().Unix()
	for _, rec := range records {
		strengths, _ := json.Marshal(rec.Strengths)
		dev, _ := json.Marshal(rec.DevelopmentAreas)
		sig, _ := json.Marshal(rec.SignificantGaps)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO gap_analysis
			 (session_id,employee_name,gap_type,avg_skill_level,avg_gap_score,max_gap,
			  significant_gaps_count,has_gaps,strengths_json,development_areas_json,significant_gaps_json,created_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
			 ON CONFLICT (session_id,employee_name,gap_type)
			 DO UPDATE SET avg_skill_level=EXCLUDED.avg_skill_level, avg_gap_score=EXCLUDED.avg_gap_score,
			   max_gap=EXCLUDED.max_gap, significant_gaps_count=EXCLUDED.significant_gaps_count,
			   has_gaps=EXCLUDED.has_gaps, strengths_json=EXCLUDED.strengths_json,
			   development_areas_json=EXCLUDED.development_areas_json, significant_gaps_json=EXCLUDED.significant_gaps_json`,
			sessionID, rec.Employee, string(rec.GapType), rec.AvgSkillLevel, rec.AvgGapScore, rec.MaxGap,
			len(rec.SignificantGaps), rec.HasGaps, string(strengths), string(dev), string(sig), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) LoadGapRecords(ctx context.Context, sessionID string, gapType analysis.GapType) ([]analysis.GapRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT employee_name,avg_skill_level,avg_gap_score,max_gap,has_gaps,
		        strengths_json,development_areas_json,significant_gaps_json
		 FROM gap_analysis WHERE session_id=$1 AND gap_type=$2
		 ORDER BY employee_name`, sessionID, string(gapType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []analysis.GapRecord
	for rows.Next() {
		rec := analysis.GapRecord{GapType: gapType}
		var strengths, dev, sig string
		if err := rows.Scan(&rec.Employee, &rec.AvgSkillLevel, &rec.AvgGapScore, &rec.MaxGap,
			&rec.HasGaps, &strengths, &dev, &sig); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(strengths), &rec.Strengths); err != nil {
			rec.Strengths = []analysis.SkillRating{}
		}
		if err := json.Unmarshal([]byte(dev), &rec.DevelopmentAreas); err != nil {
			rec.DevelopmentAreas = []analysis.SkillRating{}
		}
		if err := json.Unmarshal([]byte(sig), &rec.SignificantGaps); err != nil {
			rec.SignificantGaps = []analysis.SkillGap{}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *SQLStore) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, COUNT(DISTINCT employee_name), MIN(created_at)
		 FROM assessments GROUP BY session_id ORDER BY MIN(created_at) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var si SessionInfo
		var created int64
		if err := rows.Scan(&si.SessionID, &si.EmployeeCount, &created); err != nil {
			return nil, err
		}
		si.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, si)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteSession(ctx context.Context, sessionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, table := range []string{"gap_analysis", "merged_assessments", "skills_matrix", "assessments"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE session_id=$1`, sessionID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func orderedSkills(order map[string]int) []string {
	skills := make([]string, 0, len(order))
	for sk := range order {
		skills = append(skills, sk)
	}
	sort.Slice(skills, func(i, j int) bool { return order[skills[i]] < order[skills[j]] })
	return skills
}
