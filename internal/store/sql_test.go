package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/talentops/skills-audit/internal/analysis"
	"github.com/talentops/skills-audit/internal/assessment"
	"github.com/talentops/skills-audit/internal/db"
)

func testStore(t *testing.T) *SQLStore {
	t.Helper()
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	dbh, err := db.Open(ctx, db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	dbh.SetMaxOpenConns(1)
	t.Cleanup(func() { dbh.Close() })
	return NewSQLStore(dbh, "sqlite")
}

func sampleAssessment(kind assessment.Kind) *assessment.Assessment {
	return &assessment.Assessment{
		Kind:   kind,
		Skills: []string{"Communication", "Leadership", "Teamwork"},
		Rows: []assessment.Row{
			{
				Employee: "Alice Smith", Email: "alice@acme.com", JobTitle: "Engineer", Department: "Tech",
				Ratings: map[string]float64{"Communication": 4, "Leadership": 2, "Teamwork": 0},
			},
			{
				Employee: "Bob Jones",
				Ratings:  map[string]float64{"Communication": 3, "Leadership": 5, "Teamwork": 4},
			},
		},
	}
}

func TestAssessmentRoundTrip(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	if err := st.SaveAssessment(ctx, "s1", sampleAssessment(assessment.KindEmployee)); err != nil {
		t.Fatalf("SaveAssessment: %v", err)
	}
	got, err := st.LoadAssessment(ctx, "s1", assessment.KindEmployee)
	if err != nil {
		t.Fatalf("LoadAssessment: %v", err)
	}
	if len(got.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(got.Rows))
	}
	// Skill encounter order survives the round trip.
	want := []string{"Communication", "Leadership", "Teamwork"}
	for i := range want {
		if got.Skills[i] != want[i] {
			t.Fatalf("skills = %v, want %v", got.Skills, want)
		}
	}
	var alice *assessment.Row
	for i := range got.Rows {
		if got.Rows[i].Employee == "Alice Smith" {
			alice = &got.Rows[i]
		}
	}
	if alice == nil {
		t.Fatal("Alice missing after round trip")
	}
	if alice.Email != "alice@acme.com" || alice.JobTitle != "Engineer" {
		t.Errorf("identity fields = %+v", alice)
	}
	// The unrated (0) skill reads back as 0, not missing.
	if alice.Ratings["Teamwork"] != 0 || alice.Ratings["Communication"] != 4 {
		t.Errorf("ratings = %v", alice.Ratings)
	}
}

func TestAssessmentKindsAreIsolated(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	if err := st.SaveAssessment(ctx, "s1", sampleAssessment(assessment.KindEmployee)); err != nil {
		t.Fatalf("save employee: %v", err)
	}
	if _, err := st.LoadAssessment(ctx, "s1", assessment.KindManager); !errors.Is(err, ErrNotFound) {
		t.Fatalf("manager load err = %v, want ErrNotFound", err)
	}
}

func TestSaveAssessmentReplacesPrior(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	if err := st.SaveAssessment(ctx, "s1", sampleAssessment(assessment.KindEmployee)); err != nil {
		t.Fatalf("save: %v", err)
	}
	second := &assessment.Assessment{
		Kind:   assessment.KindEmployee,
		Skills: []string{"Negotiation"},
		Rows: []assessment.Row{
			{Employee: "Carol White", Ratings: map[string]float64{"Negotiation": 5}},
		},
	}
	if err := st.SaveAssessment(ctx, "s1", second); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, err := st.LoadAssessment(ctx, "s1", assessment.KindEmployee)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Rows) != 1 || got.Rows[0].Employee != "Carol White" {
		t.Fatalf("rows = %+v, want only the replacement upload", got.Rows)
	}
}

func TestMatrixRoundTrip(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	m := &assessment.Matrix{Entries: []assessment.MatrixEntry{
		{Skill: "Communication", RequiredLevel: 4, JobTitle: "Engineer", Department: "Tech"},
		{Skill: "Leadership", RequiredLevel: 3},
	}}
	if err := st.SaveMatrix(ctx, "s1", m); err != nil {
		t.Fatalf("SaveMatrix: %v", err)
	}
	got, err := st.LoadMatrix(ctx, "s1")
	if err != nil {
		t.Fatalf("LoadMatrix: %v", err)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(got.Entries))
	}
	level, found := got.RequiredLevel("Communication", "Engineer", "Tech")
	if !found || level != 4 {
		t.Errorf("lookup = (%v, %v), want (4, true)", level, found)
	}

	if _, err := st.LoadMatrix(ctx, "other"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing matrix err = %v, want ErrNotFound", err)
	}
}

func TestMergedRoundTrip(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	emp := sampleAssessment(assessment.KindEmployee)
	mgr := sampleAssessment(assessment.KindManager)
	matrix := &assessment.Matrix{Entries: []assessment.MatrixEntry{{Skill: "Communication", RequiredLevel: 3}}}
	merged, err := assessment.Merge(emp, mgr, matrix)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	if err := st.SaveMerged(ctx, "s1", merged); err != nil {
		t.Fatalf("SaveMerged: %v", err)
	}
	got, err := st.LoadMerged(ctx, "s1")
	if err != nil {
		t.Fatalf("LoadMerged: %v", err)
	}
	if !got.HasMatrix {
		t.Error("HasMatrix lost in round trip")
	}
	if len(got.Rows) != len(merged.Rows) || len(got.Skills) != len(merged.Skills) {
		t.Fatalf("shape = %d rows %d skills", len(got.Rows), len(got.Skills))
	}
	for i := range merged.Skills {
		if got.Skills[i] != merged.Skills[i] {
			t.Fatalf("skill order = %v, want %v", got.Skills, merged.Skills)
		}
	}
	for i, row := range merged.Rows {
		if got.Rows[i].Employee != row.Employee {
			t.Fatalf("row order changed: %q at %d, want %q", got.Rows[i].Employee, i, row.Employee)
		}
		for skill, sc := range row.Scores {
			if got.Rows[i].Scores[skill] != sc {
				t.Errorf("%s/%s = %+v, want %+v", row.Employee, skill, got.Rows[i].Scores[skill], sc)
			}
		}
	}
}

func TestGapRecordsRoundTrip(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	records := []analysis.GapRecord{
		{
			Employee:      "Alice Smith",
			GapType:       analysis.GapPerception,
			AvgSkillLevel: 3.5,
			AvgGapScore:   2.1,
			MaxGap:        3,
			HasGaps:       true,
			SignificantGaps: []analysis.SkillGap{
				{Skill: "Communication", GapValue: 3, Direction: analysis.DirManagerHigher, GapType: analysis.GapPerception},
			},
			Strengths:        []analysis.SkillRating{{Skill: "Teamwork", Rating: 4.5}},
			DevelopmentAreas: []analysis.SkillRating{},
		},
	}
	if err := st.SaveGapRecords(ctx, "s1", records); err != nil {
		t.Fatalf("SaveGapRecords: %v", err)
	}
	got, err := st.LoadGapRecords(ctx, "s1", analysis.GapPerception)
	if err != nil {
		t.Fatalf("LoadGapRecords: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("records = %d, want 1", len(got))
	}
	rec := got[0]
	if rec.Employee != "Alice Smith" || !rec.HasGaps || rec.AvgGapScore != 2.1 {
		t.Errorf("record = %+v", rec)
	}
	if len(rec.SignificantGaps) != 1 || rec.SignificantGaps[0].Direction != analysis.DirManagerHigher {
		t.Errorf("significant gaps = %+v", rec.SignificantGaps)
	}
	if len(rec.Strengths) != 1 || rec.Strengths[0].Rating != 4.5 {
		t.Errorf("strengths = %+v", rec.Strengths)
	}

	// The matrix variant is stored independently.
	if got, err := st.LoadGapRecords(ctx, "s1", analysis.GapMatrix); err != nil || len(got) != 0 {
		t.Fatalf("matrix records = %v, %v; want empty", got, err)
	}
}

func TestListAndDeleteSessions(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	if err := st.SaveAssessment(ctx, "s1", sampleAssessment(assessment.KindEmployee)); err != nil {
		t.Fatalf("save s1: %v", err)
	}
	if err := st.SaveAssessment(ctx, "s2", sampleAssessment(assessment.KindManager)); err != nil {
		t.Fatalf("save s2: %v", err)
	}

	sessions, err := st.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %+v, want 2", sessions)
	}
	for _, si := range sessions {
		if si.EmployeeCount != 2 {
			t.Errorf("session %s employee count = %d, want 2", si.SessionID, si.EmployeeCount)
		}
	}

	if err := st.DeleteSession(ctx, "s1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	sessions, err = st.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions after delete: %v", err)
	}
	if len(sessions) != 1 || sessions[0].SessionID != "s2" {
		t.Fatalf("sessions = %+v, want only s2", sessions)
	}
	if _, err := st.LoadAssessment(ctx, "s1", assessment.KindEmployee); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted session load err = %v, want ErrNotFound", err)
	}
}
