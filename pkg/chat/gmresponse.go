package chat

import (
	"encoding/json"
	"strings"
)

// GMResponse is the strict JSON contract the LLM is instructed to reply with.
// Narration is free text for the player; StateChange is an ordered list of
// atomic command strings (e.g. "move_to: cellar", "add_item: rusty key")
// that the engine validates before applying.
type GMResponse struct {
	Narration   Narration `json:"narration"`
	StateChange []string  `json:"state_change"`
}

// Narration tolerates both a single string and a list of paragraphs,
// since smaller models alternate between the two.
type Narration string

func (n *Narration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = Narration(strings.TrimSpace(s))
		return nil
	}

	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	*n = Narration(strings.Join(parts, "\n"))
	return nil
}

func (n Narration) String() string {
	return string(n)
}

// FallbackResponse is returned when the LLM output contains no usable JSON.
// The player sees a shrug and no state is changed.
func FallbackResponse() *GMResponse {
	return &GMResponse{
		Narration:   "The world is silent for a moment. Nothing happens.",
		StateChange: []string{},
	}
}

// ParseGMResponse extracts a GMResponse from raw LLM output. Models wrap the
// JSON in prose or code fences often enough that a plain Unmarshal is not
// sufficient; if direct decoding fails, the substring between the first "{"
// and the last "}" is tried before giving up.
func ParseGMResponse(raw string) *GMResponse {
	raw = strings.TrimSpace(raw)

	var resp GMResponse
	if err := json.Unmarshal([]byte(raw), &resp); err == nil {
		return &resp
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end > start {
		resp = GMResponse{}
		if err := json.Unmarshal([]byte(raw[start:end+1]), &resp); err == nil {
			return &resp
		}
	}

	return FallbackResponse()
}
