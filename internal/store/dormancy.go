package store

import (
	"fmt"
	"time"

	"github.com/fernwood/patternbank/internal/logging"
)

// EnforceDormancy transitions active patterns whose last_reinforced is
// older than the threshold to dormant. Idempotent: re-running finds
// nothing to change (already-dormant rows don't match the status filter).
// Returns the number of patterns transitioned. Weight is untouched —
// dormancy is a status decay, not a weight decay.
func (s *Store) EnforceDormancy(threshold time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-threshold)

	result, err := s.db.Exec(`
		UPDATE user_patterns SET status = ?
		WHERE status = ? AND last_reinforced < ?`,
		string(StatusDormant), string(StatusActive), cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: dormancy sweep: %v", ErrPersistence, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: dormancy sweep count: %v", ErrPersistence, err)
	}
	if n > 0 {
		logging.Info("store", "dormancy sweep: %d patterns went dormant (threshold %s)", n, threshold)
	}
	return int(n), nil
}
