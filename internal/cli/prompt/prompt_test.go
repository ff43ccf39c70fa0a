package prompt

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/heyreach/internal/operation"
)

var pauseInfo = operation.OperationInfo{
	Resource: "campaign",
	Name:     "pause",
	Parameters: []operation.ParameterInfo{
		{Name: "campaignId", Type: "id", Required: true},
	},
}

var addLeadsInfo = operation.OperationInfo{
	Resource: "list",
	Name:     "addLeadsToList",
	Parameters: []operation.ParameterInfo{
		{Name: "listId", Type: "id", Required: true},
		{Name: "leadsInputMode", Type: "string", Default: "single"},
		{Name: "profileUrl", Type: "string", Required: true},
		{Name: "firstName", Type: "string"},
	},
}

func TestMissing(t *testing.T) {
	tests := []struct {
		name   string
		info   operation.OperationInfo
		params operation.Params
		want   []string
	}{
		{"all missing", addLeadsInfo, operation.Params{}, []string{"listId", "profileUrl"}},
		{"empty string counts as missing", pauseInfo, operation.Params{"campaignId": ""}, []string{"campaignId"}},
		{"provided", pauseInfo, operation.Params{"campaignId": 4}, nil},
		{"json mode needs no profile URL", addLeadsInfo, operation.Params{"leadsInputMode": "json"}, []string{"listId"}},
		{"optional params ignored", addLeadsInfo, operation.Params{"listId": "1", "profileUrl": "x"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, p := range Missing(tt.info, tt.params) {
				got = append(got, p.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFill_SelectsFromOptions(t *testing.T) {
	mock := NewMockPrompter(true, "12")
	options := func(ctx context.Context, param string) []Option {
		assert.Equal(t, "campaignId", param)
		return []Option{{Label: "Spring (IN_PROGRESS)", Value: "12"}, {Label: "Autumn (PAUSED)", Value: "7"}}
	}

	params := operation.Params{"other": true}
	filled, err := NewCollector(mock, options, nil).Fill(context.Background(), pauseInfo, params)
	require.NoError(t, err)
	assert.Equal(t, operation.Params{"other": true, "campaignId": "12"}, filled)
	assert.Equal(t, operation.Params{"other": true}, params)
	assert.Equal(t, []string{"select:campaignId"}, mock.Calls())
}

func TestFill_FreeFormWhenNoOptions(t *testing.T) {
	mock := NewMockPrompter(true, "3", " https://www.linkedin.com/in/jane ")
	filled, err := NewCollector(mock, func(context.Context, string) []Option { return nil }, nil).
		Fill(context.Background(), addLeadsInfo, operation.Params{})
	require.NoError(t, err)
	assert.Equal(t, "3", filled["listId"])
	assert.Equal(t, "https://www.linkedin.com/in/jane", filled["profileUrl"])
	assert.Equal(t, []string{"string:listId", "string:profileUrl"}, mock.Calls())
}

func TestFill_RetriesInvalidID(t *testing.T) {
	var out bytes.Buffer
	mock := NewMockPrompter(true, "abc", "0", "5")

	filled, err := NewCollector(mock, nil, &out).Fill(context.Background(), pauseInfo, nil)
	require.NoError(t, err)
	assert.Equal(t, "5", filled["campaignId"])
	assert.Contains(t, out.String(), "campaignId must be a positive integer")
}

func TestFill_GivesUpAfterMaxRetries(t *testing.T) {
	mock := NewMockPrompter(true, "", " ", "x")

	_, err := NewCollector(mock, nil, nil).Fill(context.Background(), pauseInfo, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestFill_NonInteractiveLeavesParams(t *testing.T) {
	mock := NewMockPrompter(false)
	params := operation.Params{}

	filled, err := NewCollector(mock, nil, nil).Fill(context.Background(), pauseInfo, params)
	require.NoError(t, err)
	assert.Empty(t, filled)
	assert.Empty(t, mock.Calls())
}

func TestValidateID(t *testing.T) {
	for _, ok := range []string{"1", " 42 "} {
		assert.NoError(t, ValidateID(ok), ok)
	}
	for _, bad := range []string{"", "0", "-1", "1.5", "abc"} {
		assert.Error(t, ValidateID(bad), bad)
	}
}

func TestValidateString(t *testing.T) {
	assert.NoError(t, ValidateString("Prospects\tQ3"))
	assert.Error(t, ValidateString("   "))
	assert.Error(t, ValidateString("a\x00b"))
	assert.Error(t, ValidateString(string(make([]byte, MaxInputSize+1))))
}

func TestSurveyPrompter_NonInteractive(t *testing.T) {
	sp := NewSurveyPrompter(false)
	assert.False(t, sp.IsInteractive())

	_, err := sp.PromptString(context.Background(), "listName", "")
	assert.ErrorIs(t, err, errNonInteractive)
	_, err = sp.PromptSelect(context.Background(), "listId", "", []Option{{Label: "a", Value: "1"}})
	assert.ErrorIs(t, err, errNonInteractive)
}
