package storage

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite" // CGO-free SQLite driver

	"github.com/ashishjsharda/aviation-compliance-checker/internal/compliance"
)

// DB is the concrete storage backed by SQLite.
type DB struct {
	conn *sql.DB
}

// OpenSQLite opens (and creates if missing) a SQLite DB at path.
func OpenSQLite(path string) (*DB, error) {
	// Pragmas via DSN keep it portable with the modernc driver.
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)"
	c, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &DB{conn: c}, nil
}

func (db *DB) Close() error { return db.conn.Close() }

// CreateSchema ensures all tables exist.
func (db *DB) CreateSchema() error {
	_, err := db.conn.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  id           TEXT PRIMARY KEY,
  generated_at TEXT,          -- RFC3339
  source       TEXT,
  version      TEXT,
  report_json  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS violations (
  run_id     TEXT NOT NULL,
  filename   TEXT NOT NULL,
  rule_id    TEXT NOT NULL,
  severity   TEXT NOT NULL,
  message    TEXT,
  regulation TEXT,
  suggestion TEXT,
  line       INTEGER,
  FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_violations_run ON violations(run_id);
CREATE INDEX IF NOT EXISTS idx_violations_rule ON violations(rule_id);

CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT UNIQUE NOT NULL,
  pass_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'viewer',
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
  token TEXT PRIMARY KEY,
  user_id INTEGER NOT NULL,
  expires_at TEXT NOT NULL,
  created_at TEXT NOT NULL,
  FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS audit (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts TEXT NOT NULL,
  username TEXT,
  action TEXT NOT NULL,
  resource TEXT,
  meta_json TEXT
);

CREATE TABLE IF NOT EXISTS waivers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  rule_id     TEXT NOT NULL,
  filename    TEXT,              -- optional exact match; NULL = any
  pattern_sub TEXT,              -- optional substring to match message/suggestion
  reason      TEXT NOT NULL,
  expires_at  TEXT NOT NULL,     -- RFC3339Nano
  created_by  TEXT NOT NULL,
  created_at  TEXT NOT NULL,
  revoked_at  TEXT               -- NULL = active
);
`)
	return err
}

// SaveRun upserts a run's report JSON and (re)writes its violations.
func (db *DB) SaveRun(r *compliance.Report) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	ts := r.GeneratedAt.UTC().Format(time.RFC3339Nano)

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO runs (id, generated_at, source, version, report_json)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET generated_at=excluded.generated_at, source=excluded.source, version=excluded.version, report_json=excluded.report_json`,
		r.ID, ts, r.Source, r.Version, string(b),
	); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM violations WHERE run_id = ?`, r.ID); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO violations
		(run_id, filename, rule_id, severity, message, regulation, suggestion, line)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, f := range r.Files {
		for _, v := range f.Violations {
			if _, err := stmt.Exec(
				r.ID, f.Filename, v.RuleID, string(v.Severity),
				v.Message, v.Regulation, v.Suggestion, v.Line,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// LoadRun returns the full report (from stored JSON).
func (db *DB) LoadRun(id string) (compliance.Report, error) {
	var s string
	row := db.conn.QueryRow(`SELECT report_json FROM runs WHERE id = ?`, id)
	if err := row.Scan(&s); err != nil {
		return compliance.Report{}, err
	}
	var r compliance.Report
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return compliance.Report{}, err
	}
	return r, nil
}

// LoadLatestRun returns the most recently generated report.
func (db *DB) LoadLatestRun() (compliance.Report, error) {
	var id string
	row := db.conn.QueryRow(`SELECT id FROM runs ORDER BY generated_at DESC, id DESC LIMIT 1`)
	if err := row.Scan(&id); err != nil {
		return compliance.Report{}, err
	}
	return db.LoadRun(id)
}
