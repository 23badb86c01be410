package llm

import (
	"context"
	"fmt"
	"sync"
)

// ScriptedCompleter replays canned replies in order and repeats the last one.
// It backs LLM_PROVIDER=mock for local runs without a model key.
type ScriptedCompleter struct {
	mu      sync.Mutex
	replies []string
	calls   int
}

// NewScriptedCompleter creates a completer that answers with the given replies
func NewScriptedCompleter(replies ...string) *ScriptedCompleter {
	if len(replies) == 0 {
		replies = []string{`{"choice": 1, "reason": "Local mock classification"}`}
	}
	return &ScriptedCompleter{replies: replies}
}

// Complete implements ports.ChatCompleter
func (s *ScriptedCompleter) Complete(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("scripted completion: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.calls
	if idx >= len(s.replies) {
		idx = len(s.replies) - 1
	}
	s.calls++
	return s.replies[idx], nil
}

// Calls returns how many completions were requested
func (s *ScriptedCompleter) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
