package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

var errNonInteractive = errors.New("cannot prompt in non-interactive mode")

// SurveyPrompter prompts on the terminal.
type SurveyPrompter struct {
	interactive bool
}

// NewSurveyPrompter creates a terminal prompter. With interactive false
// every prompt fails.
func NewSurveyPrompter(interactive bool) *SurveyPrompter {
	return &SurveyPrompter{interactive: interactive}
}

func (sp *SurveyPrompter) PromptString(ctx context.Context, name, desc string) (string, error) {
	if !sp.interactive {
		return "", errNonInteractive
	}

	var result string
	err := survey.AskOne(&survey.Input{Message: message(name, desc)}, &result)
	return result, err
}

func (sp *SurveyPrompter) PromptSelect(ctx context.Context, name, desc string, options []Option) (string, error) {
	if !sp.interactive {
		return "", errNonInteractive
	}
	if len(options) == 0 {
		return "", fmt.Errorf("no options provided for %s", name)
	}

	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = o.Label
	}

	var index int
	prompt := &survey.Select{
		Message: message(name, desc),
		Options: labels,
	}
	if err := survey.AskOne(prompt, &index); err != nil {
		return "", err
	}
	return options[index].Value, nil
}

func (sp *SurveyPrompter) IsInteractive() bool {
	return sp.interactive
}

func message(name, desc string) string {
	if desc == "" {
		return name + ":"
	}
	return fmt.Sprintf("%s: %s", name, desc)
}
