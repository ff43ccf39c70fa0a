// Package jq applies jq programs to operation output.
package jq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/itchyny/gojq"
)

const (
	// DefaultTimeout bounds one program run.
	DefaultTimeout = 1 * time.Second

	// DefaultMaxInputSize is the largest input accepted, measured as JSON (10MB).
	DefaultMaxInputSize = 10 * 1024 * 1024
)

// ErrTimeout is returned when a program does not finish within its timeout.
var ErrTimeout = errors.New("jq: execution timeout")

// Program is a compiled jq expression. It is safe for concurrent use.
type Program struct {
	source       string
	code         *gojq.Code
	timeout      time.Duration
	maxInputSize int64
}

// Option configures a Program.
type Option func(*Program)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Program) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithMaxInputSize overrides DefaultMaxInputSize.
func WithMaxInputSize(n int64) Option {
	return func(p *Program) {
		if n > 0 {
			p.maxInputSize = n
		}
	}
}

// Compile parses and compiles expression. An empty expression yields a nil
// Program, whose Apply returns its input unchanged.
func Compile(expression string, opts ...Option) (*Program, error) {
	if expression == "" {
		return nil, nil
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("jq compilation failed: %w", err)
	}

	p := &Program{
		source:       expression,
		code:         code,
		timeout:      DefaultTimeout,
		maxInputSize: DefaultMaxInputSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// String returns the source expression.
func (p *Program) String() string {
	if p == nil {
		return ""
	}
	return p.source
}

// Apply runs the program against data, which must be made of JSON-decoded
// values. Zero results yield nil, one result is returned as is and several
// results are returned as a []any.
func (p *Program) Apply(ctx context.Context, data any) (any, error) {
	if p == nil {
		return data, nil
	}
	if err := p.checkInputSize(data); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var results []any
	iter := p.code.RunWithContext(runCtx, data)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			var halt *gojq.HaltError
			if errors.As(err, &halt) && halt.Value() == nil {
				break
			}
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w after %v", ErrTimeout, p.timeout)
			}
			return nil, err
		}
		results = append(results, v)
	}

	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}

func (p *Program) checkInputSize(data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal jq input: %w", err)
	}
	if int64(len(raw)) > p.maxInputSize {
		return fmt.Errorf("jq input size (%d bytes) exceeds maximum (%d bytes)", len(raw), p.maxInputSize)
	}
	return nil
}
