package chunk

import "github.com/reelworks/reels/pkg/chat"

// SinceOptions configures MessagesSince.
type SinceOptions struct {
	// SkipSystem excludes system-role messages from matching. System turns
	// are injected scaffolding, not authored content worth matching on.
	SkipSystem bool

	// LookbackGuard is the number of trailing messages excluded from the
	// backward scan. The most recent few turns are typically still in
	// flight and must not be treated as confirmed history yet.
	LookbackGuard int
}

// MessagesSince returns how many messages, counted from the end of msgs,
// have occurred since the most recent message whose identity appears in
// known. Image-role messages are always excluded (their payloads are not
// hashable-meaningful text). When known is empty, or when no identity
// matches, everything is new: the full filtered length is returned.
func MessagesSince(msgs []chat.Message, known []Chunk, opts SinceOptions) int {
	filtered := make([]chat.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == chat.RoleImages {
			continue
		}
		if opts.SkipSystem && m.Role == chat.RoleSystem {
			continue
		}
		filtered = append(filtered, m)
	}

	knownSet := make(map[string]struct{}, len(known))
	for _, c := range known {
		knownSet[c.Identity] = struct{}{}
	}
	if len(knownSet) == 0 {
		return len(filtered)
	}

	start := len(filtered) - 1 - opts.LookbackGuard
	for i := start; i >= 0; i-- {
		if i >= len(filtered) {
			continue
		}
		if _, ok := knownSet[Identity(filtered[i].Content)]; ok {
			return len(filtered) - 1 - i
		}
	}

	return len(filtered)
}
