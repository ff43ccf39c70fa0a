package host

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter is a compiled boolean predicate over an output unit. The unit's
// top-level fields are variables, and the whole unit is also bound to json:
//
//	status == "PAUSED" && json.campaignAccountIds != nil
type Filter struct {
	source  string
	program *vm.Program
}

// CompileFilter compiles expression. An empty expression yields a nil
// Filter, which matches every unit.
func CompileFilter(expression string) (*Filter, error) {
	if expression == "" {
		return nil, nil
	}
	program, err := expr.Compile(expression,
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return &Filter{source: expression, program: program}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.source
}

// Match reports whether record satisfies the filter.
func (f *Filter) Match(record map[string]any) (bool, error) {
	if f == nil {
		return true, nil
	}
	env := make(map[string]any, len(record)+1)
	for k, v := range record {
		env[k] = v
	}
	env["json"] = record

	out, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("filter %q: %w", f.source, err)
	}
	matched, _ := out.(bool)
	return matched, nil
}
