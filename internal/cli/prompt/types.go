// Package prompt asks for the required operation parameters a run left out.
package prompt

import "context"

// MaxInputSize caps a single answer.
const MaxInputSize = 65536

// MaxRetries is how many invalid answers are tolerated per parameter.
const MaxRetries = 3

// Option is one choice of a selection prompt.
type Option struct {
	Label string
	Value string
}

// Prompter asks the user for values.
type Prompter interface {
	// PromptString collects a free-form answer.
	PromptString(ctx context.Context, name, desc string) (string, error)

	// PromptSelect asks the user to pick one option and returns its Value.
	PromptSelect(ctx context.Context, name, desc string, options []Option) (string, error)

	// IsInteractive returns true if prompts can be displayed
	IsInteractive() bool
}

// OptionSource lists the choices for an id parameter such as campaignId.
// A nil or empty result falls back to a free-form prompt.
type OptionSource func(ctx context.Context, param string) []Option
