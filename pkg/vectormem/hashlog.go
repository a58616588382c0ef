package vectormem

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// AppendHash records a message identity in the append-only hash ledger,
// marking it as folded into the index. No-op on a storage fault.
func (s *Store) AppendHash(ctx context.Context, messageHash string) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO hash_log (discussion_id, message_hash, timestamp) VALUES (?, ?, ?)`,
		s.discussionID, messageHash, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		s.logger.Warn("hash log append failed",
			zap.String("discussion_id", s.discussionID),
			zap.Error(err),
		)
	}
}

// RecentHashes returns the most recently logged message identities,
// newest first. Returns nil on a storage fault.
func (s *Store) RecentHashes(ctx context.Context, limit int) []string {
	hashes, err := s.recentHashes(ctx, limit)
	if err != nil {
		s.logger.Warn("hash log read failed",
			zap.String("discussion_id", s.discussionID),
			zap.Error(err),
		)
		return nil
	}

	return hashes
}

func (s *Store) recentHashes(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = defaultRecentHashLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT message_hash FROM hash_log
		 WHERE discussion_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		s.discussionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying hash log: %w", err)
	}
	defer rows.Close()

	var hashes []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("scanning hash log row: %w", err)
		}
		hashes = append(hashes, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hash log: %w", err)
	}

	return hashes, nil
}
