// Package chunk splits conversation history into token-bounded chunks, each
// carrying a content-addressed identity derived from one of its constituent
// messages. The identity is what lets downstream consumers resume exactly
// where they left off.
package chunk

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/reelworks/reels/pkg/chat"
	"github.com/reelworks/reels/pkg/textkit"
)

var (
	defaultMaxTokens   = 400
	defaultMaxMessages = 10
)

// Chunk is a bounded, renderable run of consecutive messages with one
// representative content-hash identity.
type Chunk struct {
	// Text is the rendered block for the run of messages.
	Text string `json:"text"`

	// Identity is the content-addressed identifier (SHA-256, hex-encoded)
	// of either the first or last message in the run.
	Identity string `json:"identity"`
}

// TokenEstimator estimates the token length of a rendered block.
// Owned by the text-utilities layer; see textkit.EstimateTokenLength.
type TokenEstimator func(text string) int

// Renderer renders a run of messages as a single text block.
// Owned by the text-utilities layer; see textkit.RenderBlock.
type Renderer func(msgs []chat.Message) string

// SplitOptions configures Split.
type SplitOptions struct {
	// MaxTokens bounds the estimated token length of each chunk's rendered
	// text. A single oversized message still forms its own chunk.
	MaxTokens int

	// MaxMessages is a hard cap on messages per chunk.
	MaxMessages int

	// IdentityFromFirst selects whether a chunk's identity comes from its
	// first message (true) or its last (false).
	IdentityFromFirst bool

	// Estimate defaults to textkit.EstimateTokenLength.
	Estimate TokenEstimator

	// Render defaults to textkit.RenderBlock.
	Render Renderer
}

// Identity returns the content-addressed identifier for a message body
// (SHA-256, hex-encoded). Two messages with identical content share an
// identity regardless of position; verbatim-duplicate turns collide by
// design.
func Identity(content string) string {
	h := sha256.Sum256([]byte(content))
	return hex.EncodeToString(h[:])
}

// Split divides msgs into contiguous runs whose rendered size stays within
// opts.MaxTokens and opts.MaxMessages. Chunks come back in forward
// conversation order; empty runs are dropped. Concatenating the chunks'
// constituent messages reproduces the input exactly.
func Split(msgs []chat.Message, opts SplitOptions) []Chunk {
	estimate := opts.Estimate
	if estimate == nil {
		estimate = textkit.EstimateTokenLength
	}
	render := opts.Render
	if render == nil {
		render = textkit.RenderBlock
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	maxMessages := opts.MaxMessages
	if maxMessages <= 0 {
		maxMessages = defaultMaxMessages
	}

	var chunks []Chunk
	var run []chat.Message

	flush := func() {
		if len(run) == 0 {
			return
		}

		marker := run[len(run)-1]
		if opts.IdentityFromFirst {
			marker = run[0]
		}

		chunks = append(chunks, Chunk{
			Text:     render(run),
			Identity: Identity(marker.Content),
		})
		run = nil
	}

	for _, m := range msgs {
		if len(run) > 0 {
			candidate := make([]chat.Message, len(run), len(run)+1)
			copy(candidate, run)
			candidate = append(candidate, m)

			if len(candidate) > maxMessages || estimate(render(candidate)) > maxTokens {
				flush()
			}
		}
		run = append(run, m)
	}
	flush()

	return chunks
}
