package prompt

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tombee/heyreach/internal/operation"
)

// Collector fills in missing parameters through a Prompter.
type Collector struct {
	prompter Prompter
	options  OptionSource
	out      io.Writer
}

// NewCollector creates a collector. options may be nil; out receives retry
// messages.
func NewCollector(p Prompter, options OptionSource, out io.Writer) *Collector {
	if out == nil {
		out = io.Discard
	}
	return &Collector{prompter: p, options: options, out: out}
}

// Fill returns a copy of params with every missing required parameter of
// info answered. params is returned unchanged when nothing is missing or
// the prompter is not interactive.
func (c *Collector) Fill(ctx context.Context, info operation.OperationInfo, params operation.Params) (operation.Params, error) {
	missing := Missing(info, params)
	if len(missing) == 0 || !c.prompter.IsInteractive() {
		return params, nil
	}

	filled := params.Clone()
	for i, p := range missing {
		value, err := c.collect(ctx, p, fmt.Sprintf("[%d/%d] ", i+1, len(missing)))
		if err != nil {
			return nil, err
		}
		filled[p.Name] = value
	}
	return filled, nil
}

func (c *Collector) collect(ctx context.Context, p operation.ParameterInfo, prefix string) (string, error) {
	desc := prefix + p.Description

	if p.Type == "id" && c.options != nil {
		if opts := c.options(ctx, p.Name); len(opts) > 0 {
			return c.prompter.PromptSelect(ctx, p.Name, desc, opts)
		}
	}

	validate := validatorFor(p)
	var lastErr error
	for attempt := 1; attempt <= MaxRetries; attempt++ {
		value, err := c.prompter.PromptString(ctx, p.Name, desc)
		if err != nil {
			return "", err
		}
		value = strings.TrimSpace(value)
		if lastErr = validate(value); lastErr == nil {
			return value, nil
		}
		if attempt < MaxRetries {
			fmt.Fprintf(c.out, "Error: %s %v\n", p.Name, lastErr)
		}
	}
	return "", fmt.Errorf("failed to collect %s after %d attempts: %w", p.Name, MaxRetries, lastErr)
}
