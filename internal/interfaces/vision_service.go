package interfaces

import "context"

// PartType identifies the content type of a message part.
type PartType string

const (
	PartTypeText  PartType = "text"
	PartTypeImage PartType = "image"
)

// Part is one piece of a multi-part chat message: either text or an image
// referenced by URL.
type Part struct {
	Type     PartType
	Text     string
	ImageURL string
}

// VisionMessage is a single role-tagged multi-part message in a chat
// conversation. Role is "system", "user", or "assistant".
type VisionMessage struct {
	Role  string
	Parts []Part
}

// TextMessage builds a message holding a single text part.
func TextMessage(role, text string) VisionMessage {
	return VisionMessage{Role: role, Parts: []Part{{Type: PartTypeText, Text: text}}}
}

// VisionService defines the interface for vision-capable chat completions.
// Implementations call a cloud AI provider with an ordered message sequence
// containing image parts (by URL) and text parts, and return the reply text.
type VisionService interface {
	// Chat generates a completion for the given conversation. The returned
	// string is the raw reply text; callers are responsible for extracting
	// structured content from it.
	Chat(ctx context.Context, messages []VisionMessage) (string, error)

	// Model returns the model identifier used for completions.
	Model() string

	// Close releases resources held by the provider client.
	Close() error
}
