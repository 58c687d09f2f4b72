package services

import (
	"context"
	"fmt"

	"github.com/rulebound/adventure/pkg/chat"
)

// MockLLMService is a scripted LLMService for tests. Responses are returned
// in order; once the script runs out, the last response repeats.
type MockLLMService struct {
	Responses []string
	Err       error // Returned by Chat when set

	InitCalls []string
	ChatCalls [][]chat.ChatMessage

	next int
}

var _ LLMService = (*MockLLMService)(nil)

func NewMockLLMService(responses ...string) *MockLLMService {
	return &MockLLMService{Responses: responses}
}

func (m *MockLLMService) InitModel(_ context.Context, modelName string) error {
	m.InitCalls = append(m.InitCalls, modelName)
	return nil
}

func (m *MockLLMService) Chat(_ context.Context, messages []chat.ChatMessage) (string, error) {
	m.ChatCalls = append(m.ChatCalls, messages)

	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", fmt.Errorf("mock has no scripted responses")
	}

	resp := m.Responses[m.next]
	if m.next < len(m.Responses)-1 {
		m.next++
	}
	return resp, nil
}
