package store

import (
	"database/sql"
	"fmt"
	"time"
)

// AddEvidence inserts an append-only evidence row linking a pattern to one
// observed occurrence. Returns ErrNotFound when patternID references no
// existing pattern — the extraction pipeline must create the pattern
// first. The existence check and insert run in one transaction.
func (s *Store) AddEvidence(patternID, sessionID, project, snippet string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin evidence insert: %v", ErrPersistence, err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow(`SELECT 1 FROM user_patterns WHERE id = ?`, patternID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", ErrNotFound, patternID)
	}
	if err != nil {
		return fmt.Errorf("%w: check pattern: %v", ErrPersistence, err)
	}

	_, err = tx.Exec(`
		INSERT INTO pattern_evidence (pattern_id, session_id, project, snippet, recorded_at)
		VALUES (?, ?, ?, ?, ?)`,
		patternID, sessionID, project, snippet, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: insert evidence: %v", ErrPersistence, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit evidence: %v", ErrPersistence, err)
	}
	return nil
}

// EvidenceFor returns all evidence rows for a pattern, oldest first.
// Evidence is retained even after the parent pattern is retired.
func (s *Store) EvidenceFor(patternID string) ([]*Evidence, error) {
	rows, err := s.db.Query(`
		SELECT pattern_id, session_id, project, snippet, recorded_at
		FROM pattern_evidence WHERE pattern_id = ?
		ORDER BY recorded_at ASC, id ASC`, patternID)
	if err != nil {
		return nil, fmt.Errorf("%w: query evidence: %v", ErrPersistence, err)
	}
	defer rows.Close()

	var evidence []*Evidence
	for rows.Next() {
		var e Evidence
		if err := rows.Scan(&e.PatternID, &e.SessionID, &e.Project, &e.Snippet, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("%w: scan evidence: %v", ErrPersistence, err)
		}
		evidence = append(evidence, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate evidence: %v", ErrPersistence, err)
	}
	return evidence, nil
}
