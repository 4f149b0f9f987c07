package llm

import "encoding/json"

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role
	Content string
}

// ToolSpec declares a tool the model may invoke to deliver a structured
// result instead of free-text JSON.
type ToolSpec struct {
	Name        string
	Description string
	// Schema is a JSON Schema object describing the tool's arguments.
	Schema json.RawMessage
}

// ToolCall is a tool invocation returned by the model. Arguments is the
// raw JSON argument object.
type ToolCall struct {
	Name      string
	Arguments string
}

// CompletionRequest contains the parameters for an LLM completion request.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	JSONMode    bool
	Tools       []ToolSpec
}

// CompletionResponse contains the result of an LLM completion request.
type CompletionResponse struct {
	Content      string
	ToolCalls    []ToolCall
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}
