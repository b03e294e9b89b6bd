package store

import (
	"context"
	"errors"
	"time"

	"github.com/talentops/skills-audit/internal/analysis"
	"github.com/talentops/skills-audit/internal/assessment"
)

// ErrNotFound is returned when a session has no rows of the requested type.
var ErrNotFound = errors.New("not found")

// SessionInfo summarizes one saved working dataset.
type SessionInfo struct {
	SessionID     string    `json:"session_id"`
	EmployeeCount int       `json:"employee_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// Store persists session-scoped audit data. Saving replaces the prior rows
// for that session and data type; rows upsert on their natural composite
// keys. Gap records and merged rows are cached derivations: the engine
// always recomputes them from source tables, the store just lets a session
// be reopened later.
type Store interface {
	SaveAssessment(ctx context.Context, sessionID string, a *assessment.Assessment) error
	LoadAssessment(ctx context.Context, sessionID string, kind assessment.Kind) (*assessment.Assessment, error)

	SaveMatrix(ctx context.Context, sessionID string, m *assessment.Matrix) error
	LoadMatrix(ctx context.Context, sessionID string) (*assessment.Matrix, error)

	SaveMerged(ctx context.Context, sessionID string, m *assessment.MergedTable) error
	LoadMerged(ctx context.Context, sessionID string) (*assessment.MergedTable, error)

	SaveGapRecords(ctx context.Context, sessionID string, records []analysis.GapRecord) error
	LoadGapRecords(ctx context.Context, sessionID string, gapType analysis.GapType) ([]analysis.GapRecord, error)

	ListSessions(ctx context.Context) ([]SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error
}
