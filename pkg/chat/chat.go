package chat

const (
	ChatRoleUser   = "user"
	ChatRoleAgent  = "assistant" // GM narration
	ChatRoleSystem = "system"
)

// ChatMessage is a single message in the conversation.
// This shape is defined by Ollama's chat API and is used to structure
// messages sent to the LLM.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Exchange is one completed turn: the player's command and the GM's reply.
// A bounded window of recent exchanges is included in each prompt.
type Exchange struct {
	Player string      `json:"player"`
	GM     *GMResponse `json:"gm"`
}
