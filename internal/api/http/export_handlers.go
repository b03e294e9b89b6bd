package http

import (
	"net/http"

	"github.com/talentops/skills-audit/internal/analysis"
	"github.com/talentops/skills-audit/internal/export"
	"github.com/talentops/skills-audit/internal/session"
	"github.com/talentops/skills-audit/internal/store"
)

// ExportCSVHandler streams the session's merged table (dataset=merged, the
// default) or the gap summary (dataset=gaps) as a flat CSV.
func ExportCSVHandler(st store.Store, defThreshold float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		merged, err := st.LoadMerged(ctx, session.FromContext(ctx))
		if err != nil {
			respondStoreErr(w, err, "merge assessments first")
			return
		}

		dataset := r.URL.Query().Get("dataset")
		if dataset == "" {
			dataset = "merged"
		}
		w.Header().Set("Content-Type", "text/csv")

		switch dataset {
		case "merged":
			w.Header().Set("Content-Disposition", `attachment; filename="merged_assessments.csv"`)
			if err := export.WriteMergedCSV(w, merged); err != nil {
				http.Error(w, err.Error(), 500)
			}
		case "gaps":
			gapType, threshold, ok := gapParams(r, defThreshold)
			if !ok {
				http.Error(w, "bad gap_type or threshold", 400)
				return
			}
			records := analysis.New(threshold).CalculateGaps(merged, gapType)
			w.Header().Set("Content-Disposition", `attachment; filename="gap_summary.csv"`)
			if err := export.WriteGapSummaryCSV(w, records); err != nil {
				http.Error(w, err.Error(), 500)
			}
		default:
			http.Error(w, "dataset must be merged or gaps", 400)
		}
	}
}

// ExportXLSXHandler renders the full three-sheet workbook for the session.
func ExportXLSXHandler(st store.Store, defThreshold float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		gapType, threshold, ok := gapParams(r, defThreshold)
		if !ok {
			http.Error(w, "bad gap_type or threshold", 400)
			return
		}
		merged, err := st.LoadMerged(ctx, session.FromContext(ctx))
		if err != nil {
			respondStoreErr(w, err, "merge assessments first")
			return
		}

		az := analysis.New(threshold)
		records := az.CalculateGaps(merged, gapType)
		dists := make([]analysis.Distribution, 0, len(merged.Skills))
		for _, skill := range merged.Skills {
			if d, ok := az.SkillDistribution(merged, skill); ok {
				dists = append(dists, d)
			}
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="skills_audit.xlsx"`)
		if err := export.WriteWorkbook(w, merged, records, dists); err != nil {
			http.Error(w, err.Error(), 500)
		}
	}
}
