// Package textkit provides the text-utility collaborators consumed by the
// chunking layer: a token-length estimator and a message block renderer.
package textkit

import (
	"strings"
	"unicode/utf8"

	"github.com/reelworks/reels/pkg/chat"
)

// charsPerToken is a rough average for English prose against common BPE
// vocabularies. Good enough for chunk sizing; never used for billing.
const charsPerToken = 4

// EstimateTokenLength returns an approximate token count for text.
func EstimateTokenLength(text string) int {
	if text == "" {
		return 0
	}

	n := utf8.RuneCountInString(text)
	est := n / charsPerToken
	if n%charsPerToken != 0 {
		est++
	}

	return est
}

// RenderBlock renders a run of messages as a single text block,
// one "role: content" line per message.
func RenderBlock(msgs []chat.Message) string {
	var sb strings.Builder
	for i, m := range msgs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.Role)
		sb.WriteString(": ")
		sb.WriteString(m.Content)
	}

	return sb.String()
}
