package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/talentops/skills-audit/internal/api/http"
	"github.com/talentops/skills-audit/internal/config"
	"github.com/talentops/skills-audit/internal/db"
	"github.com/talentops/skills-audit/internal/session"
	"github.com/talentops/skills-audit/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	st := store.NewSQLStore(dbh, cfg.DBDriver)

	tokens := session.NewManager(cfg.SessionSecret, 24*time.Hour)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Session management (no token required)
	r.Post("/api/sessions", api.CreateSessionHandler(tokens))
	r.Get("/api/sessions", api.ListSessionsHandler(st))
	r.Delete("/api/sessions/{sessionID}", api.DeleteSessionHandler(st))

	// Audit workflow (token-scoped to one session's dataset)
	r.Group(func(pr chi.Router) {
		pr.Use(session.Middleware(tokens))

		pr.Post("/api/uploads/{kind}", api.UploadHandler(st))
		pr.Post("/api/merge", api.MergeHandler(st))

		pr.Get("/api/gaps", api.GapsHandler(st, cfg.GapThreshold))
		pr.Get("/api/insights", api.InsightsHandler(st, cfg.GapThreshold))
		pr.Get("/api/skills/{skill}/distribution", api.DistributionHandler(st, cfg.GapThreshold))
		pr.Post("/api/plans", api.PlanHandler(st, cfg.GapThreshold, cfg.TimelineWeeks))

		pr.Get("/api/export/csv", api.ExportCSVHandler(st, cfg.GapThreshold))
		pr.Get("/api/export/xlsx", api.ExportXLSXHandler(st, cfg.GapThreshold))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("skillsauditd listening on %s (driver=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
