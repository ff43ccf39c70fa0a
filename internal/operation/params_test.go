package operation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams_Int(t *testing.T) {
	p := Params{
		"int":     7,
		"float":   float64(12),
		"frac":    1.5,
		"string":  " 42 ",
		"empty":   "",
		"number":  json.Number("9"),
		"letters": "abc",
	}

	tests := []struct {
		name    string
		key     string
		want    int
		wantErr bool
	}{
		{name: "int", key: "int", want: 7},
		{name: "whole float", key: "float", want: 12},
		{name: "fraction", key: "frac", want: 50, wantErr: true},
		{name: "numeric string", key: "string", want: 42},
		{name: "empty falls back", key: "empty", want: 50},
		{name: "json number", key: "number", want: 9},
		{name: "missing", key: "missing", want: 50},
		{name: "letters", key: "letters", want: 50, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Int(tt.key, 50)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParams_Bool(t *testing.T) {
	p := Params{"yes": true, "str": "false", "bad": "maybe"}

	v, err := p.Bool("yes", false)
	require.NoError(t, err)
	assert.True(t, v)

	v, err = p.Bool("str", true)
	require.NoError(t, err)
	assert.False(t, v)

	v, err = p.Bool("missing", true)
	require.NoError(t, err)
	assert.True(t, v)

	_, err = p.Bool("bad", false)
	assert.Error(t, err)
}

func TestParams_Strings(t *testing.T) {
	p := Params{
		"csv":   "a, b,,c ",
		"list":  []any{"x", 2, nil, " "},
		"typed": []string{"p", ""},
	}
	assert.Equal(t, []string{"a", "b", "c"}, p.Strings("csv"))
	assert.Equal(t, []string{"x", "2"}, p.Strings("list"))
	assert.Equal(t, []string{"p"}, p.Strings("typed"))
	assert.Nil(t, p.Strings("missing"))
}

func TestParams_Section(t *testing.T) {
	flat := Params{"keyword": "growth"}
	assert.Equal(t, "growth", flat.Section("additionalFields").String("keyword", ""))

	nested := Params{"additionalFields": map[string]any{"keyword": "nested"}, "keyword": "flat"}
	assert.Equal(t, "nested", nested.Section("additionalFields").String("keyword", ""))
}

func TestParams_Maps(t *testing.T) {
	fixed := Params{"customUserFields": map[string]any{
		"field": []any{
			map[string]any{"name": "a", "value": "1"},
			map[string]any{"name": "b", "value": "2"},
		},
	}}
	assert.Len(t, fixed.Maps("customUserFields"), 2)

	list := Params{"customUserFields": []any{map[string]any{"name": "a"}, "junk"}}
	assert.Len(t, list.Maps("customUserFields"), 1)
}

func TestAsLocator(t *testing.T) {
	l, ok := AsLocator(map[string]any{"mode": "list", "value": "12"})
	require.True(t, ok)
	assert.Equal(t, "list", l.Mode)
	assert.Equal(t, "12", l.Value)

	_, ok = AsLocator(map[string]any{"mode": "list"})
	assert.False(t, ok)

	_, ok = AsLocator("12")
	assert.False(t, ok)

	l, ok = AsLocator(&Locator{Mode: "id", Value: 3})
	require.True(t, ok)
	assert.Equal(t, 3, l.Value)
}

func TestRecords(t *testing.T) {
	assert.Len(t, Records([]any{1, 2, 3}), 3)
	assert.Len(t, Records(map[string]any{"id": 1}), 1)
	assert.Len(t, Records([]any{}), 0)
	assert.Equal(t, []any{map[string]any{}}, Records(nil))
}
