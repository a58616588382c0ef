package vectormem

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// SearchResult is a ranked memory row.
type SearchResult struct {
	ID        int64
	Text      string
	DateAdded string

	// Score is the combined ranking value: bm25 relevance multiplied by the
	// recency boost. bm25 reports better matches as more negative, so lower
	// scores rank first.
	Score float64
}

// Search runs a keyword search over the full-text index. The query is a
// semicolon-delimited list of keyword phrases; phrases beyond the configured
// cap are silently dropped to stay under FTS5's expression-depth limits.
// Results are ranked by relevance weighted by recency. Returns nil on a
// storage fault or when the query contains no usable phrases.
func (s *Store) Search(ctx context.Context, query string, limit int) []SearchResult {
	results, err := s.search(ctx, query, limit)
	if err != nil {
		s.logger.Warn("search failed",
			zap.String("discussion_id", s.discussionID),
			zap.Error(err),
		)
		return nil
	}

	return results
}

func (s *Store) search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	match := buildMatchExpr(query, s.config.MaxKeywords)
	if match == "" {
		return nil, nil
	}

	if limit <= 0 {
		limit = defaultSearchLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.memory_text, m.date_added,
		       bm25(memories_fts) * recency_boost(m.date_added, ?, ?) AS score
		FROM memories_fts
		JOIN memories m ON m.id = memories_fts.rowid
		WHERE memories_fts MATCH ?
		ORDER BY score
		LIMIT ?`,
		s.config.DecayRate, s.config.MaxBoost, match, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying fts index: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.ID, &r.Text, &r.DateAdded, &r.Score); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}

	return results, nil
}

// buildMatchExpr converts a semicolon-delimited keyword list into an FTS5
// MATCH expression of OR-combined literal phrases. Each phrase is trimmed,
// hyphens become spaces, and internal double quotes are escaped.
func buildMatchExpr(query string, maxKeywords int) string {
	var phrases []string

	for _, raw := range strings.Split(query, ";") {
		phrase := strings.TrimSpace(raw)
		if phrase == "" {
			continue
		}
		if len(phrases) >= maxKeywords {
			break
		}

		phrase = strings.ReplaceAll(phrase, "-", " ")
		phrase = strings.ReplaceAll(phrase, `"`, `""`)
		phrases = append(phrases, `"`+phrase+`"`)
	}

	return strings.Join(phrases, " OR ")
}
