package models

// Chat roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one {role, content} pair of a prompt
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is a chat-completions call
type CompletionRequest struct {
	Model     string
	Messages  []ChatMessage
	MaxTokens int
}

// CompletionResponse is the first choice of a chat-completions reply
type CompletionResponse struct {
	Content string
	Usage   *UsageData
}
