package assessment

import (
	"errors"
	"testing"
)

func selfAssessment(rows ...Row) *Assessment {
	return &Assessment{Kind: KindEmployee, Skills: []string{"Communication", "Leadership"}, Rows: rows}
}

func managerAssessment(rows ...Row) *Assessment {
	return &Assessment{Kind: KindManager, Skills: []string{"Communication", "Leadership"}, Rows: rows}
}

func TestMergeAveragesAndPerceptionGap(t *testing.T) {
	emp := selfAssessment(Row{Employee: "Alice", Ratings: map[string]float64{"Communication": 4, "Leadership": 2}})
	mgr := managerAssessment(Row{Employee: "Alice", Ratings: map[string]float64{"Communication": 5, "Leadership": 2}})

	m, err := Merge(emp, mgr, nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(m.Rows) != 1 || m.HasMatrix {
		t.Fatalf("rows = %d hasMatrix = %v", len(m.Rows), m.HasMatrix)
	}
	s := m.Rows[0].Scores["Communication"]
	if s.Average != 4.5 || s.PerceptionGap != 1 {
		t.Errorf("Communication = %+v, want avg 4.5 gap 1", s)
	}
	s = m.Rows[0].Scores["Leadership"]
	if s.Average != 2 || s.PerceptionGap != 0 {
		t.Errorf("Leadership = %+v, want avg 2 gap 0", s)
	}
}

func TestMergeOneSidedRating(t *testing.T) {
	emp := selfAssessment(Row{Employee: "Bob", Ratings: map[string]float64{"Communication": 4, "Leadership": 0}})
	mgr := managerAssessment(Row{Employee: "Bob", Ratings: map[string]float64{"Communication": 0, "Leadership": 3}})

	m, err := Merge(emp, mgr, nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	s := m.Rows[0].Scores["Communication"]
	// Only the present side contributes to the average, and absence is never
	// a perception gap.
	if s.Average != 4 || s.PerceptionGap != 0 {
		t.Errorf("Communication = %+v, want avg 4 gap 0", s)
	}
	s = m.Rows[0].Scores["Leadership"]
	if s.Average != 3 || s.PerceptionGap != 0 {
		t.Errorf("Leadership = %+v, want avg 3 gap 0", s)
	}
}

func TestMergeOuterJoinKeepsBothSides(t *testing.T) {
	emp := selfAssessment(
		Row{Employee: "Alice", Ratings: map[string]float64{"Communication": 4}},
		Row{Employee: "Bob", Ratings: map[string]float64{"Communication": 3}},
	)
	mgr := managerAssessment(
		Row{Employee: "Carol", Email: "carol@acme.com", Ratings: map[string]float64{"Communication": 5}},
		Row{Employee: "Alice", Ratings: map[string]float64{"Communication": 4}},
	)

	m, err := Merge(emp, mgr, nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	// Employee-side order first, then manager-only employees in their order.
	want := []string{"Alice", "Bob", "Carol"}
	if len(m.Rows) != len(want) {
		t.Fatalf("rows = %d, want %d", len(m.Rows), len(want))
	}
	for i, name := range want {
		if m.Rows[i].Employee != name {
			t.Errorf("row %d = %q, want %q", i, m.Rows[i].Employee, name)
		}
	}
	if m.Rows[2].Email != "carol@acme.com" {
		t.Errorf("manager-only row lost email: %+v", m.Rows[2])
	}
	// Manager-only employee: self side absent, average is the manager rating
	// alone, no perception gap.
	s := m.Rows[2].Scores["Communication"]
	if s.Self != 0 || s.Average != 5 || s.PerceptionGap != 0 {
		t.Errorf("manager-only scores = %+v, want self 0 avg 5 gap 0", s)
	}
}

func TestMergeEmailFallsBackToManagerSide(t *testing.T) {
	emp := selfAssessment(Row{Employee: "Alice", Ratings: map[string]float64{"Communication": 4}})
	mgr := managerAssessment(Row{
		Employee: "Alice", Email: "alice@acme.com", JobTitle: "Engineer", Department: "Tech",
		Ratings: map[string]float64{"Communication": 4},
	})

	m, err := Merge(emp, mgr, nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	r := m.Rows[0]
	if r.Email != "alice@acme.com" || r.JobTitle != "Engineer" || r.Department != "Tech" {
		t.Errorf("row = %+v, want manager-side identity fields", r)
	}
}

func TestMergeSkillUnionPreservesOrder(t *testing.T) {
	emp := &Assessment{Kind: KindEmployee, Skills: []string{"Communication", "Leadership"},
		Rows: []Row{{Employee: "Alice", Ratings: map[string]float64{"Communication": 4, "Leadership": 3}}}}
	mgr := &Assessment{Kind: KindManager, Skills: []string{"Leadership", "Teamwork"},
		Rows: []Row{{Employee: "Alice", Ratings: map[string]float64{"Leadership": 4, "Teamwork": 5}}}}

	m, err := Merge(emp, mgr, nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := []string{"Communication", "Leadership", "Teamwork"}
	if len(m.Skills) != len(want) {
		t.Fatalf("skills = %v, want %v", m.Skills, want)
	}
	for i := range want {
		if m.Skills[i] != want[i] {
			t.Fatalf("skills = %v, want %v", m.Skills, want)
		}
	}
}

func TestMergeNoSkills(t *testing.T) {
	emp := &Assessment{Kind: KindEmployee}
	mgr := &Assessment{Kind: KindManager}
	if _, err := Merge(emp, mgr, nil); !errors.Is(err, ErrNoCommonSkills) {
		t.Fatalf("err = %v, want ErrNoCommonSkills", err)
	}
}

func TestMergeWithMatrix(t *testing.T) {
	emp := selfAssessment(Row{Employee: "Bob", JobTitle: "Manager", Ratings: map[string]float64{"Communication": 5, "Leadership": 4}})
	mgr := managerAssessment(Row{Employee: "Bob", Ratings: map[string]float64{"Communication": 5, "Leadership": 4}})
	matrix := &Matrix{Entries: []MatrixEntry{
		{Skill: "Communication", RequiredLevel: 3, JobTitle: "Manager"},
	}}

	m, err := Merge(emp, mgr, matrix)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !m.HasMatrix {
		t.Fatal("HasMatrix = false")
	}
	s := m.Rows[0].Scores["Communication"]
	if s.RequiredLevel != 3 || s.MatrixGap != 2 {
		t.Errorf("Communication = %+v, want required 3 gap +2", s)
	}
	// Leadership has no matrix entry: defaulted level, counted.
	s = m.Rows[0].Scores["Leadership"]
	if s.RequiredLevel != DefaultRequiredLevel || s.MatrixGap != 1 {
		t.Errorf("Leadership = %+v, want required 3 gap +1", s)
	}
	if m.DefaultedLevels != 1 {
		t.Errorf("DefaultedLevels = %d, want 1", m.DefaultedLevels)
	}
}

func TestMergeDeduplicatesRepeatedNames(t *testing.T) {
	emp := selfAssessment(
		Row{Employee: "Alice", Ratings: map[string]float64{"Communication": 4}},
		Row{Employee: "Alice", Ratings: map[string]float64{"Communication": 1}},
	)
	mgr := managerAssessment()

	m, err := Merge(emp, mgr, nil)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(m.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(m.Rows))
	}
	if got := m.Rows[0].Scores["Communication"].Self; got != 4 {
		t.Errorf("first occurrence wins: self = %v, want 4", got)
	}
}
