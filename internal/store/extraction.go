package store

import (
	"fmt"
	"time"
)

// AppendExtractionLog records one audit row for an extraction run. The
// log feeds observability tooling only; pattern logic never reads it.
func (s *Store) AppendExtractionLog(e *ExtractionLogEntry) error {
	if e.ExtractedAt.IsZero() {
		e.ExtractedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO pattern_extraction_log (extracted_at, session_count,
			patterns_created, patterns_updated, patterns_retired, model)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ExtractedAt, e.SessionCount, e.PatternsCreated, e.PatternsUpdated,
		e.PatternsRetired, e.Model,
	)
	if err != nil {
		return fmt.Errorf("%w: append extraction log: %v", ErrPersistence, err)
	}
	return nil
}

// ExtractionLog returns the most recent extraction runs, newest first.
func (s *Store) ExtractionLog(limit int) ([]*ExtractionLogEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT extracted_at, session_count, patterns_created, patterns_updated,
			patterns_retired, model
		FROM pattern_extraction_log
		ORDER BY extracted_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query extraction log: %v", ErrPersistence, err)
	}
	defer rows.Close()

	var entries []*ExtractionLogEntry
	for rows.Next() {
		var e ExtractionLogEntry
		if err := rows.Scan(&e.ExtractedAt, &e.SessionCount, &e.PatternsCreated,
			&e.PatternsUpdated, &e.PatternsRetired, &e.Model); err != nil {
			return nil, fmt.Errorf("%w: scan extraction log: %v", ErrPersistence, err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate extraction log: %v", ErrPersistence, err)
	}
	return entries, nil
}
