package operation

import "context"

// Connector represents a configured external integration.
// Hosts run one (resource, operation) pair per input item.
type Connector interface {
	// Name returns the connector identifier
	Name() string

	// Execute runs one operation against the given parameters. The result is
	// either a single JSON-compatible value or a []any of records.
	Execute(ctx context.Context, resource, operation string, params Params) (any, error)

	// Operations describes every route the connector can execute.
	Operations() []OperationInfo
}

// OperationInfo describes a routable operation.
type OperationInfo struct {
	// Resource is the resource family (campaign, lead, ...)
	Resource string `json:"resource"`

	// Name is the operation name within the resource
	Name string `json:"name"`

	// Description is a human-readable summary
	Description string `json:"description"`

	// Parameters lists the parameter names the operation reads
	Parameters []ParameterInfo `json:"parameters,omitempty"`

	// ReadOnly is true when the operation never mutates upstream state
	ReadOnly bool `json:"read_only"`
}

// ParameterInfo describes one parameter of an operation.
type ParameterInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required,omitempty"`
	Default     any    `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// Records normalizes an operation result into output units: a []any yields
// one unit per element, anything else yields a single unit.
func Records(result any) []any {
	switch v := result.(type) {
	case []any:
		return v
	case []map[string]any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out
	case nil:
		return []any{map[string]any{}}
	default:
		return []any{v}
	}
}
