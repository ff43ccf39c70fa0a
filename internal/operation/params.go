package operation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Params is the loosely typed parameter bag a host resolves for one item.
// Values arrive already coerced by the host: strings, numbers, booleans,
// slices, nested maps, or {mode, value} resource locators.
type Params map[string]any

// Locator is the host's resource-picker result.
type Locator struct {
	Mode  string `json:"mode" yaml:"mode"`
	Value any    `json:"value" yaml:"value"`
}

// AsLocator reports whether v is a locator and returns it. Maps qualify when
// they carry a "value" key.
func AsLocator(v any) (Locator, bool) {
	switch l := v.(type) {
	case Locator:
		return l, true
	case *Locator:
		if l == nil {
			return Locator{}, false
		}
		return *l, true
	case map[string]any:
		value, ok := l["value"]
		if !ok {
			return Locator{}, false
		}
		mode, _ := l["mode"].(string)
		return Locator{Mode: mode, Value: value}, true
	case Params:
		return AsLocator(map[string]any(l))
	default:
		return Locator{}, false
	}
}

// Raw returns the value stored under name.
func (p Params) Raw(name string) (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p[name]
	return v, ok
}

// Has reports whether name holds a non-empty value.
func (p Params) Has(name string) bool {
	v, ok := p.Raw(name)
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString {
		return s != ""
	}
	return true
}

// String returns name as a string, or def when absent. Numbers and booleans
// are formatted.
func (p Params) String(name, def string) string {
	v, ok := p.Raw(name)
	if !ok || v == nil {
		return def
	}
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(s)
	}
}

// Bool returns name as a bool, or def when absent.
func (p Params) Bool(name string, def bool) (bool, error) {
	v, ok := p.Raw(name)
	if !ok || v == nil {
		return def, nil
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		if strings.TrimSpace(b) == "" {
			return def, nil
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return def, fmt.Errorf("%s must be true or false, got %q", name, b)
		}
		return parsed, nil
	default:
		return def, fmt.Errorf("%s must be true or false, got %v", name, v)
	}
}

// Int returns name as an int, or def when absent or empty.
func (p Params) Int(name string, def int) (int, error) {
	v, ok := p.Raw(name)
	if !ok || v == nil {
		return def, nil
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return def, nil
	}
	n, err := ToInt64(v)
	if err != nil {
		return def, fmt.Errorf("%s must be a whole number, got %v", name, v)
	}
	return int(n), nil
}

// Strings returns name as a list of strings. A plain string is treated as a
// comma separated list; empty entries are dropped.
func (p Params) Strings(name string) []string {
	v, ok := p.Raw(name)
	if !ok || v == nil {
		return nil
	}
	var out []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	switch list := v.(type) {
	case []string:
		for _, s := range list {
			add(s)
		}
	case []any:
		for _, item := range list {
			if item != nil {
				add(fmt.Sprint(item))
			}
		}
	case string:
		for _, s := range strings.Split(list, ",") {
			add(s)
		}
	default:
		add(fmt.Sprint(list))
	}
	return out
}

// Section returns the nested collection stored under name (for example
// "additionalFields"). When there is none, the receiver itself is returned so
// optional fields may also be supplied flat.
func (p Params) Section(name string) Params {
	v, ok := p.Raw(name)
	if !ok {
		return p
	}
	switch m := v.(type) {
	case map[string]any:
		return Params(m)
	case Params:
		return m
	default:
		return p
	}
}

// Maps returns name as a list of objects. A single object, or an object
// wrapping its list under "field" (the host's fixed-collection shape), are
// both accepted.
func (p Params) Maps(name string) []map[string]any {
	v, ok := p.Raw(name)
	if !ok || v == nil {
		return nil
	}
	return toMaps(v)
}

func toMaps(v any) []map[string]any {
	switch list := v.(type) {
	case []map[string]any:
		return list
	case []any:
		out := make([]map[string]any, 0, len(list))
		for _, item := range list {
			switch m := item.(type) {
			case map[string]any:
				out = append(out, m)
			case Params:
				out = append(out, m)
			}
		}
		return out
	case map[string]any:
		if inner, ok := list["field"]; ok {
			return toMaps(inner)
		}
		return []map[string]any{list}
	case Params:
		return toMaps(map[string]any(list))
	default:
		return nil
	}
}

// Clone returns a shallow copy of the bag.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// ToInt64 converts a JSON or YAML decoded number, or a numeric string, to an
// int64. Fractional values are rejected.
func ToInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", n)
		}
		return int64(n), nil
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, err
		}
		return floatToInt(f)
	case string:
		return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	default:
		return 0, fmt.Errorf("unsupported number type %T", v)
	}
}

func floatToInt(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%v is not a whole number", f)
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%v overflows int64", f)
	}
	return int64(f), nil
}
