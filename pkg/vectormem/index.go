package vectormem

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/reelworks/reels/pkg/chunk"
)

// IndexChunks folds chunks into the store, skipping any whose identity
// already appears in the hash ledger. This is the resumable indexing path:
// after a restart the ledger tells us exactly where to pick up, and
// re-running over the same chunks is a no-op. Returns the number of chunks
// newly indexed.
func (s *Store) IndexChunks(ctx context.Context, chunks []chunk.Chunk) int {
	if len(chunks) == 0 {
		return 0
	}

	seen := make(map[string]struct{})
	for _, h := range s.RecentHashes(ctx, len(chunks)+defaultRecentHashLimit) {
		seen[h] = struct{}{}
	}

	indexed := 0
	for _, c := range chunks {
		if _, ok := seen[c.Identity]; ok {
			continue
		}

		if s.AddMemory(ctx, c.Text, indexMetadata(c.Text)) == 0 {
			// The memory insert degraded; leave the ledger untouched so a
			// later pass retries this chunk.
			continue
		}

		s.AppendHash(ctx, c.Identity)
		seen[c.Identity] = struct{}{}
		indexed++
	}

	if indexed > 0 {
		s.logger.Debug("indexed chunks",
			zap.String("discussion_id", s.discussionID),
			zap.Int("indexed", indexed),
			zap.Int("skipped", len(chunks)-indexed),
		)
	}

	return indexed
}

// indexMetadata derives a minimal metadata blob for a raw chunk: the first
// line stands in as a title until a summarizer annotates it properly.
func indexMetadata(text string) string {
	title := text
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = title[:i]
	}
	if len(title) > 80 {
		title = title[:80]
	}

	data, err := json.Marshal(Metadata{Title: title})
	if err != nil {
		return "{}"
	}

	return string(data)
}
