package services

import (
	"context"

	"github.com/rulebound/adventure/pkg/chat"
)

// LLMService is the interface to the narrative LLM. The model is an opaque
// oracle: it receives the prompt and returns raw text, which the engine
// parses and validates before any state changes.
type LLMService interface {
	// InitModel ensures the model is available, pulling it if needed.
	InitModel(ctx context.Context, modelName string) error

	// Chat sends the message list and returns the raw model output.
	Chat(ctx context.Context, messages []chat.ChatMessage) (string, error)
}
