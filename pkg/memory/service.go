// Package memory orchestrates recall and gap detection over a discussion's
// persisted memory and summary logs.
//
// The service is polymorphic over two sources of memory: live, pulled
// straight from the in-flight message list when no persisted discussion
// exists, and file-backed, pulled from the per-discussion memory log. Gap
// detection computes exactly the unprocessed tail of memory chunks since the
// last summary, so a summarizer never reprocesses text it has already
// consumed.
package memory

import (
	"strings"

	"go.uber.org/zap"

	"github.com/reelworks/reels/pkg/chat"
	"github.com/reelworks/reels/pkg/chunk"
	"github.com/reelworks/reels/pkg/discussion"
)

// Sentinel strings returned when a discussion has no persisted state yet.
// Higher layers synthesize user-visible messaging from these.
const (
	NoMemories = "no memories yet"
	NoSummary  = "no summary available yet"
	NothingNew = "no new memories to summarize"
)

const (
	// chunkBreak separates recalled memory chunks in prompt context.
	chunkBreak = "\n\n[...]\n\n"

	// summaryBreak separates gap chunks handed to the summarization prompt.
	summaryBreak = "\n\n---\n\n"

	// defaultChunksFromFile applies when a caller passes 0 for the
	// file-backed chunk cap.
	defaultChunksFromFile = 3
)

// Service assembles prompt context from live history or persisted memories
// and computes summary gaps.
type Service struct {
	resolver *discussion.Resolver
	split    chunk.SplitOptions
	logger   *zap.Logger
}

// NewService creates a memory service. split configures how live message
// windows are re-chunked for recall.
func NewService(resolver *discussion.Resolver, split chunk.SplitOptions, logger *zap.Logger) *Service {
	return &Service{
		resolver: resolver,
		split:    split,
		logger:   logger,
	}
}

// RecentMemories returns display-ready memory context for a prompt.
//
// With no discussion id, it slices msgs to the window
// [len-lookbackStart-maxTurns, len-lookbackStart), re-chunks the slice and
// joins the blocks; an empty window yields the NoMemories sentinel. With a
// discussion id, it reads the persisted memory log and returns all chunks if
// maxChunksFromFile is negative, the whole set when it fits under the cap,
// or the most recent maxChunksFromFile chunks otherwise (0 means the
// default cap).
func (s *Service) RecentMemories(msgs []chat.Message, discussionID string, maxTurns, maxChunksFromFile, lookbackStart int) string {
	if discussionID == "" {
		return s.liveWindow(msgs, maxTurns, lookbackStart, chunkBreak, NoMemories)
	}

	recs, ok := s.memoryLog(discussionID)
	if !ok || len(recs) == 0 {
		return NoMemories
	}

	// Any negative cap means everything.
	limit := maxChunksFromFile
	if limit == 0 {
		limit = defaultChunksFromFile
	}
	if limit > 0 && len(recs) > limit {
		recs = recs[len(recs)-limit:]
	}

	return joinRecords(recs, chunkBreak)
}

// GapSinceLastSummary returns every memory chunk produced after the most
// recent chunk whose identity matches the last summary's boundary identity.
//
// No summary yet means every memory chunk is unprocessed. The memory log is
// scanned from the end backward for the boundary; a boundary that never
// appears conservatively returns everything, and a boundary sitting at the
// very last position returns the empty list (fully caught up). This is a
// single-boundary check by design: summaries always consume a contiguous
// prefix of memory chunks.
func (s *Service) GapSinceLastSummary(discussionID string) []discussion.Record {
	mem, ok := s.memoryLog(discussionID)
	if !ok {
		return nil
	}

	store, err := s.resolver.Open(discussionID)
	if err != nil {
		s.logger.Warn("opening discussion failed", zap.String("discussion_id", discussionID), zap.Error(err))
		return nil
	}

	sums, err := store.SummaryLog()
	if err != nil {
		s.logger.Warn("reading summary log failed", zap.String("discussion_id", discussionID), zap.Error(err))
		return mem
	}

	if len(sums) == 0 {
		return mem
	}

	boundary := sums[len(sums)-1].Identity
	for i := len(mem) - 1; i >= 0; i-- {
		if mem[i].Identity == boundary {
			return mem[i+1:]
		}
	}

	return mem
}

// ChatSummaryGathering joins the gap chunks (or, without a discussion id,
// the live message window) into a block for the summarization prompt.
func (s *Service) ChatSummaryGathering(msgs []chat.Message, discussionID string, maxTurns int) string {
	if discussionID == "" {
		return s.liveWindow(msgs, maxTurns, 0, summaryBreak, NothingNew)
	}

	gap := s.GapSinceLastSummary(discussionID)
	if len(gap) == 0 {
		return NothingNew
	}

	return joinRecords(gap, summaryBreak)
}

// CurrentSummary returns the most recent persisted summary text,
// or the NoSummary sentinel when none exists.
func (s *Service) CurrentSummary(discussionID string) string {
	store, err := s.resolver.Open(discussionID)
	if err != nil {
		s.logger.Warn("opening discussion failed", zap.String("discussion_id", discussionID), zap.Error(err))
		return NoSummary
	}

	sums, err := store.SummaryLog()
	if err != nil {
		s.logger.Warn("reading summary log failed", zap.String("discussion_id", discussionID), zap.Error(err))
		return NoSummary
	}

	if len(sums) == 0 {
		return NoSummary
	}

	return sums[len(sums)-1].Text
}

// CurrentMemories returns every persisted memory chunk joined in order,
// or the NoMemories sentinel when none exist.
func (s *Service) CurrentMemories(discussionID string) string {
	recs, ok := s.memoryLog(discussionID)
	if !ok || len(recs) == 0 {
		return NoMemories
	}

	return joinRecords(recs, chunkBreak)
}

// liveWindow slices msgs to [len-lookbackStart-maxTurns, len-lookbackStart),
// re-chunks the slice, and joins the blocks with sep.
func (s *Service) liveWindow(msgs []chat.Message, maxTurns, lookbackStart int, sep, empty string) string {
	end := len(msgs) - lookbackStart
	if end > len(msgs) {
		end = len(msgs)
	}
	start := end - maxTurns
	if start < 0 {
		start = 0
	}
	if end <= 0 || start >= end {
		return empty
	}

	chunks := chunk.Split(msgs[start:end], s.split)
	if len(chunks) == 0 {
		return empty
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	return strings.Join(texts, sep)
}

func (s *Service) memoryLog(discussionID string) ([]discussion.Record, bool) {
	store, err := s.resolver.Open(discussionID)
	if err != nil {
		s.logger.Warn("opening discussion failed", zap.String("discussion_id", discussionID), zap.Error(err))
		return nil, false
	}

	recs, err := store.MemoryLog()
	if err != nil {
		s.logger.Warn("reading memory log failed", zap.String("discussion_id", discussionID), zap.Error(err))
		return nil, false
	}

	return recs, true
}

func joinRecords(recs []discussion.Record, sep string) string {
	texts := make([]string, len(recs))
	for i, r := range recs {
		texts[i] = r.Text
	}

	return strings.Join(texts, sep)
}
