package heyreach

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/heyreach/internal/operation"
)

const janeURL = "https://www.linkedin.com/in/jane-doe"

func TestLeadGet(t *testing.T) {
	client, api := newTestClient(t, ok(map[string]any{"firstName": "Jane"}))

	got, err := client.leadGet(context.Background(), operation.Params{"profileUrl": janeURL})
	require.NoError(t, err)
	assert.Equal(t, "Jane", object(got)["firstName"])

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/lead/GetLead", calls[0].Path)
	assert.Equal(t, map[string]any{"profileUrl": janeURL}, calls[0].Body)
}

func TestLeadGet_Validation(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "missing",
			url:  "",
			want: "LinkedIn Profile URL is required but was not provided",
		},
		{
			name: "query string",
			url:  janeURL + "?trk=feed",
			want: `LinkedIn Profile URL should not contain query parameters. Remove everything after "?" from: "https://www.linkedin.com/in/jane-doe?trk=feed"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, api := newTestClient(t, nil)

			_, err := client.leadGet(context.Background(), operation.Params{"profileUrl": tt.url})
			opErr := requireOpError(t, err, operation.ErrorTypeValidation)
			assert.Equal(t, tt.want, opErr.Message)
			assert.Empty(t, api.Calls())
		})
	}
}

func TestLeadAddTags(t *testing.T) {
	client, api := newTestClient(t, ok(map[string]any{"newAssignedTags": []any{"vip", "q3"}}))

	got, err := client.leadAddTags(context.Background(), operation.Params{
		"profileUrl": janeURL,
		"tags":       "vip, q3,",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"profileUrl":             janeURL,
		"tagsAdded":              []string{"vip", "q3"},
		"newAssignedTags":        []any{"vip", "q3"},
		"createTagIfNotExisting": true,
	}, got)

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/lead/AddTags", calls[0].Path)
	assert.Equal(t, map[string]any{
		"leadProfileUrl":         janeURL,
		"tags":                   []any{"vip", "q3"},
		"createTagIfNotExisting": true,
	}, calls[0].Body)
}

func TestLeadAddTags_RequiresTag(t *testing.T) {
	client, api := newTestClient(t, nil)

	_, err := client.leadAddTags(context.Background(), operation.Params{"profileUrl": janeURL, "tags": " , "})
	opErr := requireOpError(t, err, operation.ErrorTypeValidation)
	assert.Equal(t, "At least one tag is required", opErr.Message)
	assert.Empty(t, api.Calls())
}

func TestLeadGetTags_MissingTagsIsEmpty(t *testing.T) {
	client, _ := newTestClient(t, ok(map[string]any{}))

	got, err := client.leadGetTags(context.Background(), operation.Params{"profileUrl": janeURL})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"profileUrl": janeURL, "tags": []any{}}, got)
}

func TestLeadReplaceTags(t *testing.T) {
	client, api := newTestClient(t, ok(map[string]any{"newAssignedTags": []any{"won"}}))

	got, err := client.leadReplaceTags(context.Background(), operation.Params{
		"profileUrl":             janeURL,
		"tags":                   []any{"won"},
		"createTagIfNotExisting": false,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"profileUrl": janeURL, "newAssignedTags": []any{"won"}}, got)

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/lead/ReplaceTags", calls[0].Path)
	assert.Equal(t, false, calls[0].Body["createTagIfNotExisting"])
}

func TestLeadGetLeadsFromCampaign_Chunked(t *testing.T) {
	client, api := newTestClient(t, pagedUpstream(1000, true))

	got, err := client.leadGetLeadsFromCampaign(context.Background(), operation.Params{
		"campaignId": 11,
		"limit":      250,
		"timeFilter": "CreationTime",
	})
	require.NoError(t, err)
	assert.Len(t, asList(t, got), 250)

	calls := api.Calls()
	require.Len(t, calls, 3)
	wantLimits := []float64{100, 100, 50}
	wantOffsets := []float64{0, 100, 200}
	for i, call := range calls {
		assert.Equal(t, "/campaign/GetLeadsFromCampaign", call.Path)
		assert.Equal(t, wantLimits[i], call.Body["limit"])
		assert.Equal(t, wantOffsets[i], call.Body["offset"])
		assert.Equal(t, float64(11), call.Body["campaignId"])
		assert.Equal(t, "CreationTime", call.Body["timeFilter"])
	}
}

func TestLeadGetLeadsFromCampaign_TruncatesOverReturn(t *testing.T) {
	// The upstream ignores the requested limit and always sends 100.
	client, api := newTestClient(t, func(call recordedCall) (int, any) {
		offset := int(call.Body["offset"].(float64))
		return http.StatusOK, map[string]any{"items": page(offset, 100)}
	})

	got, err := client.leadGetLeadsFromCampaign(context.Background(), operation.Params{
		"campaignId": 11,
		"limit":      150,
	})
	require.NoError(t, err)
	assert.Len(t, asList(t, got), 150)
	assert.Len(t, api.Calls(), 2)
}

func TestLeadGetLeadsFromCampaign_ShortUpstream(t *testing.T) {
	client, api := newTestClient(t, pagedUpstream(120, true))

	got, err := client.leadGetLeadsFromCampaign(context.Background(), operation.Params{
		"campaignId": 11,
		"limit":      500,
	})
	require.NoError(t, err)
	assert.Len(t, asList(t, got), 120)
	assert.Len(t, api.Calls(), 2)
}

func TestLeadGetLeadsFromCampaign_SingleRequest(t *testing.T) {
	client, api := newTestClient(t, pagedUpstream(1000, true))

	got, err := client.leadGetLeadsFromCampaign(context.Background(), operation.Params{
		"campaignId": "11",
		"limit":      42,
		"timeFrom":   "2025-01-01T00:00:00Z",
	})
	require.NoError(t, err)
	assert.Len(t, asList(t, got), 42)

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]any{
		"campaignId": float64(11),
		"offset":     float64(0),
		"limit":      float64(42),
		"timeFrom":   "2025-01-01T00:00:00Z",
	}, calls[0].Body)
}

func TestLeadGetLeadsFromCampaign_ReturnAll(t *testing.T) {
	client, api := newTestClient(t, pagedUpstream(230, true))

	got, err := client.leadGetLeadsFromCampaign(context.Background(), operation.Params{
		"campaignId": 11,
		"returnAll":  true,
		"limit":      50000,
	})
	require.NoError(t, err)
	assert.Len(t, asList(t, got), 230)
	assert.Len(t, api.Calls(), 3)
}

func TestLeadGetLeadsFromCampaign_EmptyIsList(t *testing.T) {
	client, _ := newTestClient(t, ok(map[string]any{"items": []any{}}))

	got, err := client.leadGetLeadsFromCampaign(context.Background(), operation.Params{
		"campaignId": 11,
		"limit":      300,
	})
	require.NoError(t, err)
	assert.Equal(t, []any{}, got)
}

func TestLeadGetLeadsFromCampaign_LimitValidation(t *testing.T) {
	tests := []struct {
		limit int
		want  string
	}{
		{10001, `Limit cannot exceed 10,000. For larger datasets, use "Return All" option.`},
		{0, "Limit must be at least 1"},
	}

	for _, tt := range tests {
		client, api := newTestClient(t, nil)

		_, err := client.leadGetLeadsFromCampaign(context.Background(), operation.Params{
			"campaignId": 11,
			"limit":      tt.limit,
		})
		opErr := requireOpError(t, err, operation.ErrorTypeValidation)
		assert.Equal(t, tt.want, opErr.Message)
		assert.Empty(t, api.Calls())
	}
}

func TestLeadGetCampaignsForLead(t *testing.T) {
	client, api := newTestClient(t, ok(map[string]any{"items": page(0, 2)}))

	got, err := client.leadGetCampaignsForLead(context.Background(), operation.Params{
		"leadEmail": "jane@example.com",
		"limit":     10,
	})
	require.NoError(t, err)
	assert.Len(t, asList(t, got), 2)

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/campaign/GetCampaignsForLead", calls[0].Path)
	assert.Equal(t, map[string]any{
		"offset": float64(0),
		"limit":  float64(10),
		"email":  "jane@example.com",
	}, calls[0].Body)
}

func TestLeadForLead_RequiresIdentifier(t *testing.T) {
	client, api := newTestClient(t, nil)

	for _, handler := range []Handler{(*Client).leadGetCampaignsForLead, (*Client).leadGetListsForLead} {
		_, err := handler(client, context.Background(), operation.Params{})
		opErr := requireOpError(t, err, operation.ErrorTypeValidation)
		assert.Equal(t, "At least one identifier is required: Profile URL, Email, or LinkedIn ID", opErr.Message)
	}
	assert.Empty(t, api.Calls())
}

func TestLeadGetListsForLead(t *testing.T) {
	client, api := newTestClient(t, ok(map[string]any{}))

	got, err := client.leadGetListsForLead(context.Background(), operation.Params{
		"leadProfileUrl": janeURL,
		"leadLinkedinId": "ACoAA",
	})
	require.NoError(t, err)
	assert.Equal(t, []any{}, got)

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/list/GetListsForLead", calls[0].Path)
	assert.Equal(t, janeURL, calls[0].Body["profileUrl"])
	assert.Equal(t, "ACoAA", calls[0].Body["linkedinId"])
}

func TestLeadStopInCampaign(t *testing.T) {
	client, api := newTestClient(t, func(recordedCall) (int, any) { return http.StatusOK, nil })

	got, err := client.leadStopInCampaign(context.Background(), operation.Params{
		"campaignId": 11,
		"leadUrl":    janeURL,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"success":      true,
		"message":      "Lead stopped in campaign successfully",
		"campaignId":   int64(11),
		"leadMemberId": nil,
		"leadUrl":      janeURL,
	}, got)

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/campaign/StopLeadInCampaign", calls[0].Path)
	assert.Equal(t, map[string]any{"campaignId": float64(11), "leadUrl": janeURL}, calls[0].Body)
}

func TestLeadStopInCampaign_RequiresLead(t *testing.T) {
	client, api := newTestClient(t, nil)

	_, err := client.leadStopInCampaign(context.Background(), operation.Params{"campaignId": 11})
	opErr := requireOpError(t, err, operation.ErrorTypeValidation)
	assert.Equal(t, "Either Lead Member ID or Lead URL is required", opErr.Message)
	assert.Empty(t, api.Calls())
}

func TestLeadGetLeadsFromList(t *testing.T) {
	client, api := newTestClient(t, ok(map[string]any{"items": page(0, 5), "totalCount": 5}))

	got, err := client.leadGetLeadsFromList(context.Background(), operation.Params{
		"listId":  map[string]any{"mode": "list", "value": "7"},
		"keyword": "cto",
		"limit":   5,
	})
	require.NoError(t, err)
	assert.Len(t, asList(t, got), 5)

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]any{
		"listId":  float64(7),
		"offset":  float64(0),
		"limit":   float64(5),
		"keyword": "cto",
	}, calls[0].Body)
}

func TestLeadDeleteFromList(t *testing.T) {
	client, api := newTestClient(t, ok(map[string]any{"notFoundInList": []any{"https://www.linkedin.com/in/b"}}))

	got, err := client.leadDeleteFromList(context.Background(), operation.Params{
		"listId":      7,
		"profileUrls": "https://www.linkedin.com/in/a,\n https://www.linkedin.com/in/b \n\n",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"success":        true,
		"message":        "Processed 2 profile URLs for deletion",
		"listId":         int64(7),
		"processedUrls":  2,
		"notFoundInList": []any{"https://www.linkedin.com/in/b"},
	}, got)

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodDelete, calls[0].Method)
	assert.Equal(t, "/list/DeleteLeadsFromListByProfileUrl", calls[0].Path)
	assert.Equal(t, []any{"https://www.linkedin.com/in/a", "https://www.linkedin.com/in/b"}, calls[0].Body["profileUrls"])
}

func TestLeadDeleteFromList_Validation(t *testing.T) {
	tests := []struct {
		name string
		urls any
		want string
	}{
		{
			name: "none",
			urls: " ,\n",
			want: "At least one LinkedIn profile URL is required",
		},
		{
			name: "one invalid",
			urls: []any{"https://www.linkedin.com/in/a", "https://www.linkedin.com/company/b"},
			want: "Invalid LinkedIn profile URL format: https://www.linkedin.com/company/b. Please use format: https://www.linkedin.com/in/username",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, api := newTestClient(t, nil)

			_, err := client.leadDeleteFromList(context.Background(), operation.Params{"listId": 7, "profileUrls": tt.urls})
			opErr := requireOpError(t, err, operation.ErrorTypeValidation)
			assert.Equal(t, tt.want, opErr.Message)
			assert.Empty(t, api.Calls())
		})
	}
}
