package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:skillsaudit.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/skillsaudit?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS assessments (
  session_id TEXT NOT NULL,
  employee_name TEXT NOT NULL,
  email TEXT NOT NULL DEFAULT '',
  job_title TEXT NOT NULL DEFAULT '',
  department TEXT NOT NULL DEFAULT '',
  kind TEXT NOT NULL,
  skill_name TEXT NOT NULL,
  skill_idx INTEGER NOT NULL DEFAULT 0,
  rating REAL NOT NULL,
  created_at INTEGER NOT NULL,
  PRIMARY KEY (session_id, employee_name, kind, skill_name)
);

CREATE TABLE IF NOT EXISTS skills_matrix (
  session_id TEXT NOT NULL,
  skill_name TEXT NOT NULL,
  job_title TEXT NOT NULL DEFAULT '',
  department TEXT NOT NULL DEFAULT '',
  required_level REAL NOT NULL,
  created_at INTEGER NOT NULL,
  PRIMARY KEY (session_id, skill_name, job_title, department)
);

CREATE TABLE IF NOT EXISTS merged_assessments (
  session_id TEXT NOT NULL,
  employee_name TEXT NOT NULL,
  email TEXT NOT NULL DEFAULT '',
  job_title TEXT NOT NULL DEFAULT '',
  department TEXT NOT NULL DEFAULT '',
  skill_name TEXT NOT NULL,
  skill_idx INTEGER NOT NULL DEFAULT 0,
  row_idx INTEGER NOT NULL DEFAULT 0,
  self_rating REAL NOT NULL,
  manager_rating REAL NOT NULL,
  average_rating REAL NOT NULL,
  perception_gap REAL NOT NULL,
  matrix_gap REAL NOT NULL DEFAULT 0,
  has_matrix_gap INTEGER NOT NULL DEFAULT 0,
  required_level REAL NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL,
  PRIMARY KEY (session_id, employee_name, skill_name)
);

CREATE TABLE IF NOT EXISTS gap_analysis (
  session_id TEXT NOT NULL,
  employee_name TEXT NOT NULL,
  gap_type TEXT NOT NULL,
  avg_skill_level REAL NOT NULL,
  avg_gap_score REAL NOT NULL,
  max_gap REAL NOT NULL,
  significant_gaps_count INTEGER NOT NULL,
  has_gaps INTEGER NOT NULL,
  strengths_json TEXT NOT NULL DEFAULT '[]',
  development_areas_json TEXT NOT NULL DEFAULT '[]',
  significant_gaps_json TEXT NOT NULL DEFAULT '[]',
  created_at INTEGER NOT NULL,
  PRIMARY KEY (session_id, employee_name, gap_type)
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS assessments (
  session_id TEXT NOT NULL,
  employee_name TEXT NOT NULL,
  email TEXT NOT NULL DEFAULT '',
  job_title TEXT NOT NULL DEFAULT '',
  department TEXT NOT NULL DEFAULT '',
  kind TEXT NOT NULL,
  skill_name TEXT NOT NULL,
  skill_idx INTEGER NOT NULL DEFAULT 0,
  rating DOUBLE PRECISION NOT NULL,
  created_at BIGINT NOT NULL,
  PRIMARY KEY (session_id, employee_name, kind, skill_name)
);

CREATE TABLE IF NOT EXISTS skills_matrix (
  session_id TEXT NOT NULL,
  skill_name TEXT NOT NULL,
  job_title TEXT NOT NULL DEFAULT '',
  department TEXT NOT NULL DEFAULT '',
  required_level DOUBLE PRECISION NOT NULL,
  created_at BIGINT NOT NULL,
  PRIMARY KEY (session_id, skill_name, job_title, department)
);

CREATE TABLE IF NOT EXISTS merged_assessments (
  session_id TEXT NOT NULL,
  employee_name TEXT NOT NULL,
  email TEXT NOT NULL DEFAULT '',
  job_title TEXT NOT NULL DEFAULT '',
  department TEXT NOT NULL DEFAULT '',
  skill_name TEXT NOT NULL,
  skill_idx INTEGER NOT NULL DEFAULT 0,
  row_idx INTEGER NOT NULL DEFAULT 0,
  self_rating DOUBLE PRECISION NOT NULL,
  manager_rating DOUBLE PRECISION NOT NULL,
  average_rating DOUBLE PRECISION NOT NULL,
  perception_gap DOUBLE PRECISION NOT NULL,
  matrix_gap DOUBLE PRECISION NOT NULL DEFAULT 0,
  has_matrix_gap BOOLEAN NOT NULL DEFAULT FALSE,
  required_level DOUBLE PRECISION NOT NULL DEFAULT 0,
  created_at BIGINT NOT NULL,
  PRIMARY KEY (session_id, employee_name, skill_name)
);

CREATE TABLE IF NOT EXISTS gap_analysis (
  session_id TEXT NOT NULL,
  employee_name TEXT NOT NULL,
  gap_type TEXT NOT NULL,
  avg_skill_level DOUBLE PRECISION NOT NULL,
  avg_gap_score DOUBLE PRECISION NOT NULL,
  max_gap DOUBLE PRECISION NOT NULL,
  significant_gaps_count INTEGER NOT NULL,
  has_gaps BOOLEAN NOT NULL,
  strengths_json TEXT NOT NULL DEFAULT '[]',
  development_areas_json TEXT NOT NULL DEFAULT '[]',
  significant_gaps_json TEXT NOT NULL DEFAULT '[]',
  created_at BIGINT NOT NULL,
  PRIMARY KEY (session_id, employee_name, gap_type)
);
`
