package heyreach

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/heyreach/internal/operation"
)

func TestIsValidProfileURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.linkedin.com/in/jane-doe", true},
		{"https://linkedin.com/in/jane-doe/", true},
		{"  https://www.linkedin.com/in/jane_doe.42  ", true},
		{"https://www.linkedin.com/in/j%C3%BCrgen", true},
		{"https://www.linkedin.com/in/jürgen-müller", true},
		{"https://www.linkedin.com/in/李明", true},
		{"", false},
		{"   ", false},
		{"http://www.linkedin.com/in/jane", false},
		{"https://www.linkedin.com/company/acme", false},
		{"https://www.linkedin.com/in/jane?trk=abc", false},
		{"https://www.linkedin.com/in/jane#about", false},
		{"https://www.linkedin.com/in/jane/details", false},
		{"https://evil.com/linkedin.com/in/jane", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidProfileURL(tt.url))
		})
	}
}

func TestProfileURLProblem(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "empty",
			url:  "  ",
			want: "LinkedIn Profile URL is required and cannot be empty",
		},
		{
			name: "http scheme",
			url:  "http://linkedin.com/in/jane",
			want: `LinkedIn Profile URL must start with "https://". Current URL: "http://linkedin.com/in/jane"`,
		},
		{
			name: "company page",
			url:  "https://www.linkedin.com/company/acme",
			want: `LinkedIn Profile URL must contain "linkedin.com/in/". Current URL: "https://www.linkedin.com/company/acme"`,
		},
		{
			name: "query string",
			url:  "https://www.linkedin.com/in/jane?trk=x",
			want: `LinkedIn Profile URL should not contain query parameters. Remove everything after "?" from: "https://www.linkedin.com/in/jane?trk=x"`,
		},
		{
			name: "fragment",
			url:  "https://www.linkedin.com/in/jane#top",
			want: `LinkedIn Profile URL should not contain hash fragments. Remove everything after "#" from: "https://www.linkedin.com/in/jane#top"`,
		},
		{
			name: "query wins over fragment",
			url:  "https://www.linkedin.com/in/jane?a=1#top",
			want: `LinkedIn Profile URL should not contain query parameters. Remove everything after "?" from: "https://www.linkedin.com/in/jane?a=1#top"`,
		},
		{
			name: "extra path segment",
			url:  " https://www.linkedin.com/in/jane/details ",
			want: `LinkedIn Profile URL format is invalid. Expected format: "https://www.linkedin.com/in/username". Current URL: "https://www.linkedin.com/in/jane/details"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProfileURLProblem(tt.url))
		})
	}
}

func TestIsValidCustomFieldName(t *testing.T) {
	valid := []string{"Company_Size", "abc123", "_", "X"}
	invalid := []string{"", "company size", "company-size", "naïve", "a.b"}

	for _, name := range valid {
		assert.True(t, IsValidCustomFieldName(name), name)
	}
	for _, name := range invalid {
		assert.False(t, IsValidCustomFieldName(name), name)
	}
}

func TestParseID_EquivalentForms(t *testing.T) {
	forms := []any{
		42,
		int64(42),
		float64(42),
		"42",
		" 42 ",
		operation.Locator{Mode: "list", Value: "42"},
		&operation.Locator{Mode: "id", Value: 42},
		map[string]any{"mode": "id", "value": float64(42)},
		map[string]any{"mode": "list", "value": "42"},
	}

	for _, form := range forms {
		id, err := ParseID(form, "campaign ID")
		require.NoError(t, err, "form %#v", form)
		assert.Equal(t, int64(42), id, "form %#v", form)
	}
}

func TestParseID_Errors(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"missing", nil, "Campaign ID is required"},
		{"empty string", "", "Campaign ID is required"},
		{"empty locator", map[string]any{"mode": "list", "value": ""}, "Campaign ID is required"},
		{"not numeric", "abc", "Invalid campaign ID: abc. Must be a positive integer."},
		{"zero", 0, "Invalid campaign ID: 0. Must be a positive integer."},
		{"negative string", "-3", "Invalid campaign ID: -3. Must be a positive integer."},
		{"fraction", 1.5, "Invalid campaign ID: 1.5. Must be a positive integer."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseID(tt.value, "campaign ID")
			opErr := requireOpError(t, err, operation.ErrorTypeValidation)
			assert.Equal(t, tt.want, opErr.Message)
		})
	}
}

func TestParseIDList(t *testing.T) {
	ids, err := ParseIDList(" 3, 1,,2 , 3,1 ", "account ID")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, ids)

	ids, err = ParseIDList("", "account ID")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = ParseIDList("1, x, 2", "account ID")
	opErr := requireOpError(t, err, operation.ErrorTypeValidation)
	assert.Equal(t, "Invalid account ID: x. All IDs must be positive integers.", opErr.Message)

	_, err = ParseIDList("1,0", "account ID")
	opErr = requireOpError(t, err, operation.ErrorTypeValidation)
	assert.Equal(t, "Invalid account ID: 0. All IDs must be positive integers.", opErr.Message)
}

func TestValidateDateRange(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		start   string
		end     string
		wantErr string
	}{
		{"valid dates", "2025-01-01", "2025-02-01", ""},
		{"valid timestamps", "2025-01-01T10:00:00Z", "2025-01-01T11:00:00+00:00", ""},
		{"bad start", "yesterday", "2025-02-01", "Invalid start date format: yesterday"},
		{"bad end", "2025-01-01", "soon", "Invalid end date format: soon"},
		{"equal", "2025-01-01", "2025-01-01", "Start date must be before end date"},
		{"reversed", "2025-02-01", "2025-01-01", "Start date must be before end date"},
		{"future start", "2025-07-01", "2025-08-01", "Start date cannot be in the future"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDateRange(tt.start, tt.end, now)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			opErr := requireOpError(t, err, operation.ErrorTypeValidation)
			assert.Equal(t, tt.wantErr, opErr.Message)
		})
	}
}

func TestValidatePagination(t *testing.T) {
	assert.NoError(t, ValidatePagination(1, false))
	assert.NoError(t, ValidatePagination(100, false))
	assert.NoError(t, ValidatePagination(0, true))
	assert.NoError(t, ValidatePagination(500, true))

	for _, limit := range []int{0, -1, 101} {
		err := ValidatePagination(limit, false)
		opErr := requireOpError(t, err, operation.ErrorTypeValidation)
		assert.Equal(t, "Limit must be between 1 and 100 when not returning all results", opErr.Message)
	}
}

func TestFormatDate(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	got := FormatDate(time.Date(2025, 1, 2, 4, 5, 6, 789_000_000, loc))
	assert.Equal(t, "2025-01-02T03:05:06.789Z", got)
}
