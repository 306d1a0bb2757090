package storage

import (
	"database/sql"
	"time"

	"github.com/ashishjsharda/aviation-compliance-checker/internal/compliance"
)

// RunRow is a lightweight listing row for /runs.
type RunRow struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Source      string    `json:"source,omitempty"`
	Version     string    `json:"version,omitempty"`
	Violations  int       `json:"violations"`
}

// ListRuns returns a lightweight list of runs with counts.
func (db *DB) ListRuns(limit, offset int) ([]RunRow, error) {
	const q = `
		SELECT r.id, r.generated_at, r.source, r.version,
		       (SELECT COUNT(1) FROM violations v WHERE v.run_id = r.id) AS violations
		  FROM runs r
		 ORDER BY r.generated_at DESC, r.id DESC
		 LIMIT ? OFFSET ?`
	rows, err := db.conn.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var rr RunRow
		var generated string
		if err := rows.Scan(&rr.ID, &generated, &rr.Source, &rr.Version, &rr.Violations); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, generated); err == nil {
			rr.GeneratedAt = t
		} else if t2, err2 := time.Parse(time.RFC3339, generated); err2 == nil {
			rr.GeneratedAt = t2
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

// ViolationRow is one stored violation with its filename attached.
type ViolationRow struct {
	Filename   string              `json:"filename"`
	RuleID     string              `json:"rule_id"`
	Severity   compliance.Severity `json:"severity"`
	Message    string              `json:"message"`
	Regulation string              `json:"regulation"`
	Suggestion string              `json:"suggestion,omitempty"`
	Line       int                 `json:"line,omitempty"`
}

// ListViolations returns a run's violations at or above a minimum
// severity, most severe first.
func (db *DB) ListViolations(runID string, minSeverity compliance.Severity) ([]ViolationRow, error) {
	const q = `
		SELECT filename, rule_id, severity, message, regulation, suggestion, line
		  FROM violations
		 WHERE run_id = ?
		   AND (CASE severity WHEN 'error' THEN 3 WHEN 'warning' THEN 2 ELSE 1 END)
		       >= (CASE ? WHEN 'error' THEN 3 WHEN 'warning' THEN 2 ELSE 1 END)
		 ORDER BY
		       (CASE severity WHEN 'error' THEN 3 WHEN 'warning' THEN 2 ELSE 1 END) DESC,
		       rule_id, filename`
	rows, err := db.conn.Query(q, runID, string(minSeverity))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ViolationRow
	for rows.Next() {
		var v ViolationRow
		var sev string
		var line sql.NullInt64
		if err := rows.Scan(&v.Filename, &v.RuleID, &sev, &v.Message, &v.Regulation, &v.Suggestion, &line); err != nil {
			return nil, err
		}
		v.Severity = compliance.Severity(sev)
		if line.Valid {
			v.Line = int(line.Int64)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// HasRun reports whether a run id exists.
func (db *DB) HasRun(id string) (bool, error) {
	const q = `SELECT 1 FROM runs WHERE id = ? LIMIT 1`
	var one int
	err := db.conn.QueryRow(q, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}
