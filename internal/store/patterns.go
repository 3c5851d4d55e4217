package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fernwood/patternbank/internal/confidence"
	"github.com/fernwood/patternbank/internal/sanitize"
)

// patternColumns is the canonical SELECT column list for scanPattern.
const patternColumns = `id, category, name, description, session_refs, confidence,
	weight, session_count, project_count, instruction, status, first_seen, last_reinforced`

// Write upserts a pattern. The id and category are sanitized first; a
// validation failure returns sanitize.ErrInvalid without touching storage.
// Weight is clamped to [0, 2.0]. For a new id the row is created with
// status=active and first_seen=last_reinforced=now. For an existing id all
// mutable fields and last_reinforced are updated, first_seen and status are
// preserved (reactivation is an explicit caller choice, see Reactivate).
// Returns true when a new row was created.
func (s *Store) Write(p *Pattern) (created bool, err error) {
	id, err := sanitize.ID(p.ID)
	if err != nil {
		return false, err
	}
	category, err := sanitize.Category(p.Category)
	if err != nil {
		return false, err
	}
	if p.SessionCount < 0 || p.ProjectCount < 0 {
		return false, fmt.Errorf("%w: negative counters (sessions %d, projects %d)",
			sanitize.ErrInvalid, p.SessionCount, p.ProjectCount)
	}
	p.ID = id
	p.Category = category
	p.Weight = confidence.Clamp(p.Weight)
	if p.Confidence != confidence.Low && p.Confidence != confidence.Medium && p.Confidence != confidence.High {
		p.Confidence = confidence.Compute(p.SessionCount, p.ProjectCount)
	}
	if p.SessionRefs == nil {
		p.SessionRefs = []string{}
	}

	refs, err := json.Marshal(p.SessionRefs)
	if err != nil {
		return false, fmt.Errorf("%w: marshal session_refs: %v", ErrPersistence, err)
	}

	now := time.Now().UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("%w: begin write: %v", ErrPersistence, err)
	}
	defer tx.Rollback()

	var firstSeen time.Time
	err = tx.QueryRow(`SELECT first_seen FROM user_patterns WHERE id = ?`, p.ID).Scan(&firstSeen)
	switch {
	case err == sql.ErrNoRows:
		created = true
		p.Status = StatusActive
		p.FirstSeen = now
		p.LastReinforced = now
		_, err = tx.Exec(`
			INSERT INTO user_patterns (id, category, name, description, session_refs,
				confidence, weight, session_count, project_count, instruction,
				status, first_seen, last_reinforced)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Category, p.Name, p.Description, string(refs),
			string(p.Confidence), p.Weight, p.SessionCount, p.ProjectCount, p.Instruction,
			string(p.Status), p.FirstSeen, p.LastReinforced,
		)
		if err != nil {
			return false, fmt.Errorf("%w: insert pattern: %v", ErrPersistence, err)
		}
	case err != nil:
		return false, fmt.Errorf("%w: lookup pattern: %v", ErrPersistence, err)
	default:
		p.FirstSeen = firstSeen
		p.LastReinforced = now
		_, err = tx.Exec(`
			UPDATE user_patterns SET
				category = ?, name = ?, description = ?, session_refs = ?,
				confidence = ?, weight = ?, session_count = ?, project_count = ?,
				instruction = ?, last_reinforced = ?
			WHERE id = ?`,
			p.Category, p.Name, p.Description, string(refs),
			string(p.Confidence), p.Weight, p.SessionCount, p.ProjectCount,
			p.Instruction, p.LastReinforced, p.ID,
		)
		if err != nil {
			return false, fmt.Errorf("%w: update pattern: %v", ErrPersistence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("%w: commit write: %v", ErrPersistence, err)
	}
	return created, nil
}

// Read retrieves a pattern by id. Unknown (or hostile) ids return
// (nil, nil) — the lookup is parameterized, so a malicious id string is
// just a string that matches no row.
func (s *Store) Read(id string) (*Pattern, error) {
	row := s.db.QueryRow(`SELECT `+patternColumns+` FROM user_patterns WHERE id = ?`, id)

	p, err := scanPattern(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns patterns matching all set fields of the filter. Unset
// fields match everything. Order is last_reinforced descending.
func (s *Store) List(f Filter) ([]*Pattern, error) {
	query := `SELECT ` + patternColumns + ` FROM user_patterns`
	var conds []string
	var args []any
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY last_reinforced DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list patterns: %v", ErrPersistence, err)
	}
	defer rows.Close()

	var patterns []*Pattern
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate patterns: %v", ErrPersistence, err)
	}
	return patterns, nil
}

// Retire force-sets status=retired. A no-op (not an error) when the id
// does not exist.
func (s *Store) Retire(id string) error {
	_, err := s.db.Exec(`UPDATE user_patterns SET status = ? WHERE id = ?`,
		string(StatusRetired), id)
	if err != nil {
		return fmt.Errorf("%w: retire pattern: %v", ErrPersistence, err)
	}
	return nil
}

// Reactivate moves a dormant or retired pattern back to active. A no-op
// when the id does not exist.
func (s *Store) Reactivate(id string) error {
	_, err := s.db.Exec(`UPDATE user_patterns SET status = ? WHERE id = ?`,
		string(StatusActive), id)
	if err != nil {
		return fmt.Errorf("%w: reactivate pattern: %v", ErrPersistence, err)
	}
	return nil
}

// Boost reads the current weight and applies the saturating boost formula
// inside one transaction. A no-op when the id does not exist. The stored
// weight never exceeds the cap regardless of delta. Boosts are increases
// only: a negative delta is a validation error, rejected before storage
// is touched.
func (s *Store) Boost(id string, delta float64) error {
	if delta < 0 {
		return fmt.Errorf("%w: boost delta %f is negative", sanitize.ErrInvalid, delta)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin boost: %v", ErrPersistence, err)
	}
	defer tx.Rollback()

	var weight float64
	err = tx.QueryRow(`SELECT weight FROM user_patterns WHERE id = ?`, id).Scan(&weight)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: read weight: %v", ErrPersistence, err)
	}

	boosted := confidence.Boost(weight, delta)
	if _, err := tx.Exec(`UPDATE user_patterns SET weight = ? WHERE id = ?`, boosted, id); err != nil {
		return fmt.Errorf("%w: write weight: %v", ErrPersistence, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit boost: %v", ErrPersistence, err)
	}
	return nil
}

// Stats returns aggregate pattern counts
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{ByCategory: make(map[string]int)}

	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM user_patterns GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("%w: stats by status: %v", ErrPersistence, err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("%w: scan status count: %v", ErrPersistence, err)
		}
		stats.Total += count
		switch Status(status) {
		case StatusActive:
			stats.Active = count
		case StatusDormant:
			stats.Dormant = count
		case StatusRetired:
			stats.Retired = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate status counts: %v", ErrPersistence, err)
	}

	catRows, err := s.db.Query(`SELECT category, COUNT(*) FROM user_patterns GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("%w: stats by category: %v", ErrPersistence, err)
	}
	defer catRows.Close()
	for catRows.Next() {
		var category string
		var count int
		if err := catRows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("%w: scan category count: %v", ErrPersistence, err)
		}
		stats.ByCategory[category] = count
	}
	if err := catRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate category counts: %v", ErrPersistence, err)
	}

	return stats, nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanPattern
type scanner interface {
	Scan(dest ...any) error
}

// scanPattern scans one user_patterns row, validating the session_refs
// JSON shape on the way out.
func scanPattern(row scanner) (*Pattern, error) {
	var p Pattern
	var refs, conf, status string
	err := row.Scan(&p.ID, &p.Category, &p.Name, &p.Description, &refs, &conf,
		&p.Weight, &p.SessionCount, &p.ProjectCount, &p.Instruction, &status,
		&p.FirstSeen, &p.LastReinforced)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan pattern: %v", ErrPersistence, err)
	}

	if err := json.Unmarshal([]byte(refs), &p.SessionRefs); err != nil {
		return nil, fmt.Errorf("%w: corrupt session_refs for %s: %v", ErrPersistence, p.ID, err)
	}
	p.Confidence = confidence.Tier(conf)
	p.Status = Status(status)
	return &p, nil
}
