package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/talentops/skills-audit/internal/assessment"
	"github.com/talentops/skills-audit/internal/session"
	"github.com/talentops/skills-audit/internal/store"
	"github.com/talentops/skills-audit/internal/tabular"
)

// CreateSessionHandler starts a fresh working dataset and hands back the
// token that scopes subsequent calls to it.
func CreateSessionHandler(tokens *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := uuid.NewString()
		tok, err := tokens.Issue(sid)
		if err != nil {
			http.Error(w, "issue token", 500)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"session_id": sid,
			"token":      tok,
		})
	}
}

func ListSessionsHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions, err := st.ListSessions(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if sessions == nil {
			sessions = []store.SessionInfo{}
		}
		_ = json.NewEncoder(w).Encode(sessions)
	}
}

func DeleteSessionHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := chi.URLParam(r, "sessionID")
		if err := st.DeleteSession(r.Context(), sid); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// UploadHandler ingests one CSV (multipart field "file") as the employee
// assessment, manager assessment, or skills matrix, normalizes it and
// persists it into the caller's session.
func UploadHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := chi.URLParam(r, "kind")
		f, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", 400)
			return
		}
		defer f.Close()

		table, err := tabular.ReadCSV(f)
		if err != nil {
			http.Error(w, "bad csv: "+err.Error(), 400)
			return
		}
		sid := session.FromContext(r.Context())

		switch kind {
		case "employee", "manager":
			a, err := assessment.Normalize(table, assessment.Kind(kind))
			if err != nil {
				http.Error(w, err.Error(), 400)
				return
			}
			if err := st.SaveAssessment(r.Context(), sid, a); err != nil {
				http.Error(w, err.Error(), 500)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"kind":         kind,
				"employees":    len(a.Rows),
				"skills":       a.Skills,
				"dropped_rows": a.DroppedRows,
			})
		case "matrix":
			m, err := assessment.NormalizeMatrix(table)
			if err != nil {
				http.Error(w, err.Error(), 400)
				return
			}
			if err := st.SaveMatrix(r.Context(), sid, m); err != nil {
				http.Error(w, err.Error(), 500)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"kind":    kind,
				"entries": len(m.Entries),
				"skipped": m.Skipped,
			})
		default:
			http.Error(w, "kind must be employee, manager, or matrix", 400)
		}
	}
}

// MergeHandler reconciles the session's two uploaded assessments (plus the
// matrix when one was uploaded) into the canonical merged table.
func MergeHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sid := session.FromContext(ctx)

		emp, err := st.LoadAssessment(ctx, sid, assessment.KindEmployee)
		if err != nil {
			respondStoreErr(w, err, "upload the employee assessment first")
			return
		}
		mgr, err := st.LoadAssessment(ctx, sid, assessment.KindManager)
		if err != nil {
			respondStoreErr(w, err, "upload the manager assessment first")
			return
		}
		matrix, err := st.LoadMatrix(ctx, sid)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			http.Error(w, err.Error(), 500)
			return
		}

		merged, err := assessment.Merge(emp, mgr, matrix)
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		if err := st.SaveMerged(ctx, sid, merged); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"employees":        len(merged.Rows),
			"skills":           merged.Skills,
			"has_matrix":       merged.HasMatrix,
			"defaulted_levels": merged.DefaultedLevels,
		})
	}
}

func respondStoreErr(w http.ResponseWriter, err error, notFoundMsg string) {
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, notFoundMsg, 404)
		return
	}
	http.Error(w, err.Error(), 500)
}
