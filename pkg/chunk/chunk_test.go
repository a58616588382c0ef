package chunk_test

import (
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reelworks/reels/pkg/chat"
	"github.com/reelworks/reels/pkg/chunk"
)

var _ = Describe("Identity", func() {
	It("is deterministic", func() {
		Expect(chunk.Identity("hello")).To(Equal(chunk.Identity("hello")))
	})

	It("differs for different content", func() {
		Expect(chunk.Identity("hello")).NotTo(Equal(chunk.Identity("goodbye")))
	})

	It("ignores position entirely", func() {
		a := chat.NewMessage(chat.RoleUser, "same words")
		b := chat.NewMessage(chat.RoleAssistant, "same words")
		Expect(chunk.Identity(a.Content)).To(Equal(chunk.Identity(b.Content)))
	})
})

var _ = Describe("Split", func() {
	conversation := func(n int) []chat.Message {
		msgs := make([]chat.Message, n)
		for i := range msgs {
			role := chat.RoleUser
			if i%2 == 1 {
				role = chat.RoleAssistant
			}
			msgs[i] = chat.NewMessage(role, fmt.Sprintf("message number %d", i))
		}
		return msgs
	}

	It("returns nothing for an empty message list", func() {
		Expect(chunk.Split(nil, chunk.SplitOptions{})).To(BeEmpty())
	})

	It("keeps a short conversation in one chunk", func() {
		chunks := chunk.Split(conversation(3), chunk.SplitOptions{})
		Expect(chunks).To(HaveLen(1))
	})

	It("respects the message cap", func() {
		chunks := chunk.Split(conversation(10), chunk.SplitOptions{MaxMessages: 3})
		Expect(chunks).To(HaveLen(4))
	})

	It("respects the token bound", func() {
		// Every message renders to well over 5 estimated tokens,
		// so each lands in its own chunk.
		chunks := chunk.Split(conversation(4), chunk.SplitOptions{MaxTokens: 5})
		Expect(chunks).To(HaveLen(4))
	})

	It("covers every message exactly once", func() {
		msgs := conversation(9)
		chunks := chunk.Split(msgs, chunk.SplitOptions{MaxMessages: 2})

		var rendered strings.Builder
		for i, c := range chunks {
			if i > 0 {
				rendered.WriteString("\n")
			}
			rendered.WriteString(c.Text)
		}

		var whole strings.Builder
		for i, m := range msgs {
			if i > 0 {
				whole.WriteString("\n")
			}
			whole.WriteString(m.Role + ": " + m.Content)
		}

		Expect(rendered.String()).To(Equal(whole.String()))
	})

	It("uses the last message for identity by default", func() {
		msgs := conversation(2)
		chunks := chunk.Split(msgs, chunk.SplitOptions{})
		Expect(chunks).To(HaveLen(1))
		Expect(chunks[0].Identity).To(Equal(chunk.Identity(msgs[1].Content)))
	})

	It("uses the first message for identity when asked", func() {
		msgs := conversation(2)
		chunks := chunk.Split(msgs, chunk.SplitOptions{IdentityFromFirst: true})
		Expect(chunks).To(HaveLen(1))
		Expect(chunks[0].Identity).To(Equal(chunk.Identity(msgs[0].Content)))
	})

	It("gives an oversized single message its own chunk", func() {
		msgs := []chat.Message{
			chat.NewMessage(chat.RoleUser, strings.Repeat("long ", 200)),
			chat.NewMessage(chat.RoleAssistant, "short"),
		}
		chunks := chunk.Split(msgs, chunk.SplitOptions{MaxTokens: 10})
		Expect(chunks).To(HaveLen(2))
	})

	It("uses custom estimator and renderer collaborators", func() {
		msgs := conversation(4)
		chunks := chunk.Split(msgs, chunk.SplitOptions{
			MaxTokens: 1,
			Estimate:  func(string) int { return 1 },
			Render:    func(run []chat.Message) string { return fmt.Sprintf("<%d msgs>", len(run)) },
		})
		Expect(chunks).To(HaveLen(1))
		Expect(chunks[0].Text).To(Equal("<4 msgs>"))
	})
})

var _ = Describe("MessagesSince", func() {
	msgs := []chat.Message{
		chat.NewMessage(chat.RoleSystem, "sys"),
		chat.NewMessage(chat.RoleUser, "u1"),
		chat.NewMessage(chat.RoleAssistant, "a1"),
		chat.NewMessage(chat.RoleUser, "u2"),
		chat.NewMessage(chat.RoleAssistant, "a2"),
	}

	known := func(contents ...string) []chunk.Chunk {
		out := make([]chunk.Chunk, len(contents))
		for i, c := range contents {
			out[i] = chunk.Chunk{Identity: chunk.Identity(c)}
		}
		return out
	}

	It("treats an empty known set as everything new", func() {
		n := chunk.MessagesSince(msgs, nil, chunk.SinceOptions{SkipSystem: true})
		Expect(n).To(Equal(4))
	})

	It("counts messages after the most recent match", func() {
		n := chunk.MessagesSince(msgs, known("a1"), chunk.SinceOptions{SkipSystem: true})
		Expect(n).To(Equal(2))
	})

	It("returns zero when the last message matches", func() {
		n := chunk.MessagesSince(msgs, known("a2"), chunk.SinceOptions{SkipSystem: true})
		Expect(n).To(BeZero())
	})

	It("returns the full filtered length when nothing matches", func() {
		n := chunk.MessagesSince(msgs, known("never said"), chunk.SinceOptions{SkipSystem: true})
		Expect(n).To(Equal(4))
	})

	It("skips in-flight messages behind the lookback guard", func() {
		// a2 is inside the guard window, so the scan never sees it.
		n := chunk.MessagesSince(msgs, known("a2"), chunk.SinceOptions{
			SkipSystem:    true,
			LookbackGuard: 1,
		})
		Expect(n).To(Equal(4))
	})

	It("ignores image messages entirely", func() {
		withImage := append([]chat.Message{}, msgs...)
		withImage = append(withImage, chat.NewMessage(chat.RoleImages, "payload"))

		n := chunk.MessagesSince(withImage, known("a2"), chunk.SinceOptions{SkipSystem: true})
		Expect(n).To(BeZero())
	})

	It("keeps system messages when not skipping them", func() {
		n := chunk.MessagesSince(msgs, nil, chunk.SinceOptions{SkipSystem: false})
		Expect(n).To(Equal(5))
	})
})
