package timestamp

import (
	"time"

	"go.uber.org/zap"

	"github.com/reelworks/reels/pkg/chat"
	"github.com/reelworks/reels/pkg/chunk"
	"github.com/reelworks/reels/pkg/discussion"
)

const (
	// openingBackfill is how far before "now" the very first turn of a
	// fresh conversation is dated.
	openingBackfill = 2 * time.Minute

	// assistantLatency estimates how long after the previous persisted
	// turn an undated assistant reply landed.
	assistantLatency = 10 * time.Second
)

// Service applies the per-discussion timestamp state machine. Transitions
// are driven by which message identities already have entries in the
// persisted map, not by an explicit state flag.
type Service struct {
	resolver *discussion.Resolver
	clock    func() time.Time
	logger   *zap.Logger
}

// NewService creates a timestamp service using the wall clock.
func NewService(resolver *discussion.Resolver, logger *zap.Logger) *Service {
	return &Service{
		resolver: resolver,
		clock:    time.Now,
		logger:   logger,
	}
}

// WithClock overrides the clock source. Intended for tests.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// Apply runs one timestamp pass over the full message list and returns a
// copy with stored timestamps prepended to message content. System messages
// are left untouched. The input slice is never mutated, so running Apply
// twice over the same messages and map state produces identical output.
//
// Rules, in order:
//   - every message whose identity is already mapped gets its stored
//     timestamp prepended;
//   - opening: with at least 3 dateable messages and the first two both
//     undated, the first is backfilled to now minus 2 minutes and the
//     second to now, both persisted;
//   - steady state (at least 4 dateable messages): the second-to-last
//     dateable message gets a persisted "now" if undated; the third-to-last,
//     if undated, is backfilled to 10 seconds after the fourth-to-last's
//     persisted timestamp; the last (the in-flight assistant turn) gets a
//     transient "now" for display only, never persisted, because its final
//     content is not yet final.
//
// The map is written back only when a rule actually added an entry.
func (s *Service) Apply(msgs []chat.Message, discussionID string) []chat.Message {
	out := make([]chat.Message, len(msgs))
	copy(out, msgs)

	store, err := s.resolver.Open(discussionID)
	if err != nil {
		s.logger.Warn("opening discussion failed",
			zap.String("discussion_id", discussionID), zap.Error(err))
		return out
	}

	stamps, err := store.TimestampMap()
	if err != nil {
		// Malformed map is treated as absent, not fatal.
		s.logger.Warn("reading timestamp map failed",
			zap.String("discussion_id", discussionID), zap.Error(err))
		stamps = map[string]string{}
	}

	var dateable []int
	ids := make([]string, len(out))
	for i, m := range out {
		if m.Role == chat.RoleSystem {
			continue
		}
		ids[i] = chunk.Identity(m.Content)
		dateable = append(dateable, i)
	}

	now := s.clock()
	dirty := false

	// Opening rule: the first two turns of a fresh conversation get
	// plausible dates so relative-time phrasing in prompts makes sense.
	if len(dateable) >= 3 {
		first, second := ids[dateable[0]], ids[dateable[1]]
		_, firstDated := stamps[first]
		_, secondDated := stamps[second]
		if !firstDated && !secondDated {
			stamps[first] = Format(now.Add(-openingBackfill))
			stamps[second] = Format(now)
			dirty = true
		}
	}

	// Steady-state rule.
	if n := len(dateable); n >= 4 {
		secondLast := ids[dateable[n-2]]
		if _, ok := stamps[secondLast]; !ok {
			stamps[secondLast] = Format(now)
			dirty = true
		}

		thirdLast := ids[dateable[n-3]]
		if _, ok := stamps[thirdLast]; !ok {
			if anchor, ok := stamps[ids[dateable[n-4]]]; ok {
				if t, parsed := Parse(anchor); parsed {
					stamps[thirdLast] = Format(t.Add(assistantLatency))
					dirty = true
				}
			}
		}
	}

	// Prepend pass: display-ready content for every dated message.
	for _, i := range dateable {
		if stamp, ok := stamps[ids[i]]; ok {
			out[i].Content = stamp + " " + out[i].Content
		}
	}

	// Transient stamp for the in-flight assistant turn.
	if n := len(dateable); n >= 4 {
		last := dateable[n-1]
		if _, ok := stamps[ids[last]]; !ok {
			out[last].Content = Format(now) + " " + out[last].Content
		}
	}

	if dirty {
		if err := store.SaveTimestampMap(stamps); err != nil {
			s.logger.Warn("persisting timestamp map failed",
				zap.String("discussion_id", discussionID), zap.Error(err))
		}
	}

	return out
}
