// Package chat defines the conversation message model shared by the
// chunking, memory, and timestamp layers.
package chat

// Message roles. Images carries non-textual payloads and is excluded from
// identity matching.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleImages    = "images"
)

// Message represents a single message in a conversation.
// Messages are immutable once chunked; identity is derived from Content,
// not from position in the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewMessage creates a message with the given role and content.
func NewMessage(role, content string) Message {
	return Message{Role: role, Content: content}
}
