package prompt

import (
	"context"
	"fmt"
	"sync"
)

// MockPrompter answers prompts from a fixed list of responses.
type MockPrompter struct {
	mu          sync.Mutex
	interactive bool
	responses   []string
	index       int
	calls       []string
}

// NewMockPrompter creates a mock that returns responses in order.
func NewMockPrompter(interactive bool, responses ...string) *MockPrompter {
	return &MockPrompter{interactive: interactive, responses: responses}
}

func (mp *MockPrompter) next(call string) (string, error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.calls = append(mp.calls, call)
	if mp.index >= len(mp.responses) {
		return "", fmt.Errorf("no more mock responses available")
	}
	r := mp.responses[mp.index]
	mp.index++
	return r, nil
}

func (mp *MockPrompter) PromptString(ctx context.Context, name, desc string) (string, error) {
	return mp.next("string:" + name)
}

// PromptSelect treats the next response as the chosen option's Value and
// checks that it was offered.
func (mp *MockPrompter) PromptSelect(ctx context.Context, name, desc string, options []Option) (string, error) {
	value, err := mp.next("select:" + name)
	if err != nil {
		return "", err
	}
	for _, o := range options {
		if o.Value == value {
			return value, nil
		}
	}
	return "", fmt.Errorf("%q is not one of the offered options", value)
}

func (mp *MockPrompter) IsInteractive() bool {
	return mp.interactive
}

// Calls returns the prompts made so far, as "kind:name".
func (mp *MockPrompter) Calls() []string {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return append([]string(nil), mp.calls...)
}
