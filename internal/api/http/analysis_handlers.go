package http

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/talentops/skills-audit/internal/analysis"
	"github.com/talentops/skills-audit/internal/assessment"
	"github.com/talentops/skills-audit/internal/session"
	"github.com/talentops/skills-audit/internal/store"
	"github.com/talentops/skills-audit/internal/training"
)

func gapParams(r *http.Request, defThreshold float64) (analysis.GapType, float64, bool) {
	gapType := analysis.GapType(r.URL.Query().Get("gap_type"))
	if gapType == "" {
		gapType = analysis.GapPerception
	}
	if gapType != analysis.GapPerception && gapType != analysis.GapMatrix {
		return "", 0, false
	}
	threshold := defThreshold
	if s := r.URL.Query().Get("threshold"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			return "", 0, false
		}
		threshold = v
	}
	return gapType, threshold, true
}

// GapsHandler runs the gap analysis over the session's merged table and
// caches the result for later listing.
func GapsHandler(st store.Store, defThreshold float64) http.HandlerFunc {
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
		records := analysis.New(threshold).CalculateGaps(merged, gapType)
		if err := st.SaveGapRecords(ctx, session.FromContext(ctx), records); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"gap_type":  gapType,
			"threshold": threshold,
			"records":   records,
		})
	}
}

func InsightsHandler(st store.Store, defThreshold float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		_, threshold, ok := gapParams(r, defThreshold)
		if !ok {
			http.Error(w, "bad threshold", 400)
			return
		}
		merged, err := st.LoadMerged(ctx, session.FromContext(ctx))
		if err != nil {
			respondStoreErr(w, err, "merge assessments first")
			return
		}
		_ = json.NewEncoder(w).Encode(analysis.New(threshold).OrganizationInsights(merged))
	}
}

func DistributionHandler(st store.Store, defThreshold float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		_, threshold, ok := gapParams(r, defThreshold)
		if !ok {
			http.Error(w, "bad threshold", 400)
			return
		}
		merged, err := st.LoadMerged(ctx, session.FromContext(ctx))
		if err != nil {
			respondStoreErr(w, err, "merge assessments first")
			return
		}
		skill := chi.URLParam(r, "skill")
		if unescaped, err := url.PathUnescape(skill); err == nil {
			skill = unescaped
		}
		dist, ok := analysis.New(threshold).SkillDistribution(merged, skill)
		if !ok {
			http.Error(w, "unknown skill", 404)
			return
		}
		_ = json.NewEncoder(w).Encode(dist)
	}
}

type planRequest struct {
	Employee string `json:"employee"`
	GapType  string `json:"gap_type"`
	// Pointer so an explicit 0 is distinguishable from an absent field.
	Threshold     *float64 `json:"threshold"`
	TimelineWeeks int      `json:"timeline_weeks"`
}

// PlanHandler composes an individual development plan for one employee from
// the session's current gap analysis.
func PlanHandler(st store.Store, defThreshold float64, defTimelineWeeks int) http.HandlerFunc {
	composer := training.NewComposer()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req planRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Employee == "" {
			http.Error(w, "employee required", 400)
			return
		}
		gapType := analysis.GapType(req.GapType)
		if gapType == "" {
			gapType = analysis.GapPerception
		}
		if gapType != analysis.GapPerception && gapType != analysis.GapMatrix {
			http.Error(w, "bad gap_type", 400)
			return
		}
		threshold := defThreshold
		if req.Threshold != nil {
			if *req.Threshold < 0 {
				http.Error(w, "bad threshold", 400)
				return
			}
			threshold = *req.Threshold
		}
		weeks := req.TimelineWeeks
		if weeks <= 0 {
			weeks = defTimelineWeeks
		}

		merged, err := st.LoadMerged(ctx, session.FromContext(ctx))
		if err != nil {
			respondStoreErr(w, err, "merge assessments first")
			return
		}

		want := assessment.TitleCase(req.Employee)
		for _, rec := range analysis.New(threshold).CalculateGaps(merged, gapType) {
			if rec.Employee == want {
				plan := composer.CreatePlan(rec.Employee, rec.SignificantGaps, rec.Strengths, weeks)
				_ = json.NewEncoder(w).Encode(plan)
				return
			}
		}
		http.Error(w, "employee not found", 404)
	}
}
