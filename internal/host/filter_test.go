package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileFilter(t *testing.T) {
	f, err := CompileFilter("")
	require.NoError(t, err)
	assert.Nil(t, f)

	ok, err := f.Match(map[string]any{"anything": true})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = CompileFilter("status ==")
	assert.ErrorContains(t, err, "invalid filter expression")

	_, err = CompileFilter(`"not a bool"`)
	assert.Error(t, err)
}

func TestFilter_Match(t *testing.T) {
	record := map[string]any{
		"id":          11.0,
		"status":      "PAUSED",
		"connections": 700.0,
		"correspondentProfile": map[string]any{
			"firstName": "Ada",
		},
	}

	tests := []struct {
		expression string
		want       bool
	}{
		{`status == "PAUSED"`, true},
		{`status in ["DRAFT", "FAILED"]`, false},
		{`connections > 500`, true},
		{`json.id == 11`, true},
		{`correspondentProfile.firstName startsWith "A"`, true},
		{`missing == nil`, true},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			f, err := CompileFilter(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.expression, f.String())

			got, err := f.Match(record)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
