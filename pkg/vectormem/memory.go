package vectormem

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Metadata is the structured annotation stored alongside a memory and
// folded into the full-text index.
type Metadata struct {
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	Entities   []string `json:"entities"`
	KeyPhrases []string `json:"key_phrases"`
}

// AddMemory inserts a memory into the ground-truth table and the full-text
// index as one transaction. metadataJSON must decode into Metadata; a decode
// failure after the ground-truth insert rolls the whole transaction back so
// the two tables never diverge. Returns the new row id, or 0 on failure.
func (s *Store) AddMemory(ctx context.Context, text, metadataJSON string) int64 {
	id, err := s.addMemory(ctx, text, metadataJSON)
	if err != nil {
		s.logger.Warn("add memory failed",
			zap.String("discussion_id", s.discussionID),
			zap.Error(err),
		)
		return 0
	}

	return id
}

func (s *Store) addMemory(ctx context.Context, text, metadataJSON string) (int64, error) {
	if metadataJSON == "" {
		metadataJSON = "{}"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	dateAdded := time.Now().UTC().Format(time.RFC3339)

	res, err := tx.ExecContext(ctx,
		`INSERT INTO memories (discussion_id, memory_text, date_added, metadata)
		 VALUES (?, ?, ?, ?)`,
		s.discussionID, text, dateAdded, metadataJSON,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting memory: %w", err)
	}

	rowID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting memory row id: %w", err)
	}

	// Decoded inside the transaction deliberately: a malformed metadata
	// blob must abort the ground-truth insert too.
	var meta Metadata
	if err := json.Unmarshal([]byte(metadataJSON), &meta); err != nil {
		return 0, fmt.Errorf("parsing metadata: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO memories_fts (rowid, memory_text, title, summary, entities, key_phrases)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rowID, text, meta.Title, meta.Summary,
		flattenTerms(meta.Entities), flattenTerms(meta.KeyPhrases),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting fts row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}

	return rowID, nil
}

// flattenTerms joins list-valued metadata into a space-separated token
// string with quote characters stripped, keeping the values safe inside
// both the index and the search syntax.
func flattenTerms(terms []string) string {
	joined := strings.Join(terms, " ")
	return strings.NewReplacer(`"`, "", `'`, "").Replace(joined)
}
