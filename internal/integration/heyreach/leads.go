package heyreach

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/tombee/heyreach/internal/operation"
)

// maxCampaignLeads bounds getLeadsFromCampaign without returnAll.
const maxCampaignLeads = 10000

var profileURLSeparator = regexp.MustCompile(`[,\n]`)

// profileURLParam reads a profile URL that must be well formed.
func profileURLParam(p operation.Params, name string) (string, error) {
	url := p.String(name, "")
	if !IsValidProfileURL(url) {
		return "", operation.NewValidationError("Invalid LinkedIn profile URL format. %s", profileURLFormatHint)
	}
	return url, nil
}

func listIDParam(p operation.Params) (int64, error) {
	raw, _ := p.Raw("listId")
	return ParseID(raw, "list ID")
}

// tagsParam reads tags as a comma separated list; at least one is required.
func tagsParam(p operation.Params) ([]string, error) {
	tags := p.Strings("tags")
	if len(tags) == 0 {
		return nil, operation.NewValidationError("At least one tag is required")
	}
	return tags, nil
}

func (c *Client) leadGet(ctx context.Context, p operation.Params) (any, error) {
	url := p.String("profileUrl", "")
	if strings.TrimSpace(url) == "" {
		return nil, operation.NewValidationError("LinkedIn Profile URL is required but was not provided")
	}
	if !IsValidProfileURL(url) {
		return nil, operation.NewValidationError("%s", ProfileURLProblem(url))
	}
	return c.Request(ctx, http.MethodPost, "/lead/GetLead", map[string]any{"profileUrl": url}, nil)
}

func (c *Client) leadAddTags(ctx context.Context, p operation.Params) (any, error) {
	url, tags, create, err := decodeTagInput(p)
	if err != nil {
		return nil, err
	}
	resp, err := c.Request(ctx, http.MethodPost, "/lead/AddTags", map[string]any{
		"leadProfileUrl":         url,
		"tags":                   tags,
		"createTagIfNotExisting": create,
	}, nil)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"profileUrl":             url,
		"tagsAdded":              tags,
		"newAssignedTags":        listOrEmpty(object(resp)["newAssignedTags"]),
		"createTagIfNotExisting": create,
	}, nil
}

func (c *Client) leadGetTags(ctx context.Context, p operation.Params) (any, error) {
	url, err := profileURLParam(p, "profileUrl")
	if err != nil {
		return nil, err
	}
	resp, err := c.Request(ctx, http.MethodPost, "/lead/GetTags", map[string]any{"profileUrl": url}, nil)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"profileUrl": url,
		"tags":       listOrEmpty(object(resp)["tags"]),
	}, nil
}

func (c *Client) leadReplaceTags(ctx context.Context, p operation.Params) (any, error) {
	url, tags, create, err := decodeTagInput(p)
	if err != nil {
		return nil, err
	}
	resp, err := c.Request(ctx, http.MethodPost, "/lead/ReplaceTags", map[string]any{
		"leadProfileUrl":         url,
		"tags":                   tags,
		"createTagIfNotExisting": create,
	}, nil)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"profileUrl":      url,
		"newAssignedTags": listOrEmpty(object(resp)["newAssignedTags"]),
	}, nil
}

func decodeTagInput(p operation.Params) (string, []string, bool, error) {
	url, err := profileURLParam(p, "profileUrl")
	if err != nil {
		return "", nil, false, err
	}
	tags, err := tagsParam(p)
	if err != nil {
		return "", nil, false, err
	}
	create, err := p.Bool("createTagIfNotExisting", true)
	if err != nil {
		return "", nil, false, operation.NewValidationError("%v", err)
	}
	return url, tags, create, nil
}

func listOrEmpty(v any) []any {
	if list, ok := v.([]any); ok {
		return list
	}
	return []any{}
}

type campaignLeadsInput struct {
	campaignID int64
	returnAll  bool
	limit      int
	timeFrom   string
	timeTo     string
	timeFilter string
}

func decodeCampaignLeadsInput(p operation.Params) (*campaignLeadsInput, error) {
	var errs operation.FieldErrors
	in := &campaignLeadsInput{
		timeFrom:   p.String("timeFrom", ""),
		timeTo:     p.String("timeTo", ""),
		timeFilter: p.String("timeFilter", "Everywhere"),
	}

	var err error
	in.campaignID, err = campaignIDParam(p)
	errs.AddErr("campaignId", err)
	in.returnAll, err = p.Bool("returnAll", false)
	errs.AddErr("returnAll", err)
	in.limit, err = p.Int("limit", 100)
	errs.AddErr("limit", err)

	if !errs.Has("limit") && !in.returnAll {
		if in.limit > maxCampaignLeads {
			errs.Add("limit", `Limit cannot exceed 10,000. For larger datasets, use "Return All" option.`)
		} else if in.limit < 1 {
			errs.Add("limit", "Limit must be at least 1")
		}
	}
	return in, errs.Err()
}

func (in *campaignLeadsInput) body(offset, limit int) map[string]any {
	body := map[string]any{
		"campaignId": in.campaignID,
		"offset":     offset,
		"limit":      limit,
	}
	if in.timeFrom != "" {
		body["timeFrom"] = in.timeFrom
	}
	if in.timeTo != "" {
		body["timeTo"] = in.timeTo
	}
	if in.timeFilter != "" && in.timeFilter != "Everywhere" {
		body["timeFilter"] = in.timeFilter
	}
	return body
}

func (c *Client) leadGetLeadsFromCampaign(ctx context.Context, p operation.Params) (any, error) {
	in, err := decodeCampaignLeadsInput(p)
	if err != nil {
		return nil, err
	}

	const endpoint = "/campaign/GetLeadsFromCampaign"

	switch {
	case in.returnAll:
		return c.FetchAll(ctx, http.MethodPost, endpoint, in.body(0, PageSize))
	case in.limit <= PageSize:
		resp, err := c.Request(ctx, http.MethodPost, endpoint, in.body(0, in.limit), nil)
		if err != nil {
			return nil, err
		}
		return itemsOrEmpty(resp), nil
	}

	// Chunked up to the requested limit; offsets advance by what the
	// upstream actually returned.
	var leads []any
	offset, remaining := 0, in.limit
	for remaining > 0 {
		batch := min(remaining, PageSize)
		resp, err := c.Request(ctx, http.MethodPost, endpoint, in.body(offset, batch), nil)
		if err != nil {
			return nil, err
		}
		c.metrics.RecordPage(endpoint)

		items := itemsOrEmpty(resp)
		leads = append(leads, items...)
		remaining -= len(items)
		offset += len(items)

		if len(items) < batch || len(leads) >= in.limit {
			break
		}
	}
	if len(leads) > in.limit {
		leads = leads[:in.limit]
	}
	if leads == nil {
		leads = []any{}
	}
	return leads, nil
}

// leadIdentifierBody reads the lead identifiers shared by the for-lead
// lookups into a request body.
func leadIdentifierBody(p operation.Params) (map[string]any, error) {
	var errs operation.FieldErrors
	offset, err := p.Int("offset", 0)
	errs.AddErr("offset", err)
	limit, err := p.Int("limit", 100)
	errs.AddErr("limit", err)

	profileURL := p.String("leadProfileUrl", "")
	email := p.String("leadEmail", "")
	linkedinID := p.String("leadLinkedinId", "")

	if profileURL == "" && email == "" && linkedinID == "" {
		errs.Add("leadProfileUrl", "At least one identifier is required: Profile URL, Email, or LinkedIn ID")
	} else if profileURL != "" && !IsValidProfileURL(profileURL) {
		errs.Add("leadProfileUrl", "Invalid LinkedIn profile URL format. "+profileURLFormatHint)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	body := map[string]any{"offset": offset, "limit": limit}
	if profileURL != "" {
		body["profileUrl"] = profileURL
	}
	if email != "" {
		body["email"] = email
	}
	if linkedinID != "" {
		body["linkedinId"] = linkedinID
	}
	return body, nil
}

func (c *Client) leadGetCampaignsForLead(ctx context.Context, p operation.Params) (any, error) {
	body, err := leadIdentifierBody(p)
	if err != nil {
		return nil, err
	}
	return c.collect(ctx, "/campaign/GetCampaignsForLead", body, false)
}

func (c *Client) leadGetListsForLead(ctx context.Context, p operation.Params) (any, error) {
	body, err := leadIdentifierBody(p)
	if err != nil {
		return nil, err
	}
	return c.collect(ctx, "/list/GetListsForLead", body, false)
}

func (c *Client) leadStopInCampaign(ctx context.Context, p operation.Params) (any, error) {
	id, err := campaignIDParam(p)
	if err != nil {
		return nil, err
	}
	memberID := p.String("leadMemberId", "")
	leadURL := p.String("leadUrl", "")
	if memberID == "" && leadURL == "" {
		return nil, operation.NewValidationError("Either Lead Member ID or Lead URL is required")
	}
	if leadURL != "" && !IsValidProfileURL(leadURL) {
		return nil, operation.NewValidationError("Invalid LinkedIn profile URL format. %s", profileURLFormatHint)
	}

	body := map[string]any{"campaignId": id}
	if memberID != "" {
		body["leadMemberId"] = memberID
	}
	if leadURL != "" {
		body["leadUrl"] = leadURL
	}
	if _, err := c.Request(ctx, http.MethodPost, "/campaign/StopLeadInCampaign", body, nil); err != nil {
		return nil, err
	}

	return map[string]any{
		"success":      true,
		"message":      "Lead stopped in campaign successfully",
		"campaignId":   id,
		"leadMemberId": nilIfEmpty(memberID),
		"leadUrl":      nilIfEmpty(leadURL),
	}, nil
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (c *Client) leadGetLeadsFromList(ctx context.Context, p operation.Params) (any, error) {
	var errs operation.FieldErrors
	id, err := listIDParam(p)
	errs.AddErr("listId", err)
	offset, err := p.Int("offset", 0)
	errs.AddErr("offset", err)
	limit, err := p.Int("limit", 100)
	errs.AddErr("limit", err)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	body := map[string]any{"listId": id, "offset": offset, "limit": limit}
	if keyword := p.String("keyword", ""); keyword != "" {
		body["keyword"] = keyword
	}
	return c.collect(ctx, "/list/GetLeadsFromList", body, false)
}

func (c *Client) leadDeleteFromList(ctx context.Context, p operation.Params) (any, error) {
	id, err := listIDParam(p)
	if err != nil {
		return nil, err
	}

	var urls []string
	if list, ok := p["profileUrls"].([]any); ok {
		for _, u := range list {
			if s, isString := u.(string); isString && strings.TrimSpace(s) != "" {
				urls = append(urls, strings.TrimSpace(s))
			}
		}
	} else {
		for _, u := range profileURLSeparator.Split(p.String("profileUrls", ""), -1) {
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, u)
			}
		}
	}
	if len(urls) == 0 {
		return nil, operation.NewValidationError("At least one LinkedIn profile URL is required")
	}
	for _, u := range urls {
		if !IsValidProfileURL(u) {
			return nil, operation.NewValidationError("Invalid LinkedIn profile URL format: %s. %s", u, profileURLFormatHint)
		}
	}

	resp, err := c.Request(ctx, http.MethodDelete, "/list/DeleteLeadsFromListByProfileUrl", map[string]any{
		"listId":      id,
		"profileUrls": urls,
	}, nil)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"success":        true,
		"message":        fmt.Sprintf("Processed %d profile URLs for deletion", len(urls)),
		"listId":         id,
		"processedUrls":  len(urls),
		"notFoundInList": listOrEmpty(object(resp)["notFoundInList"]),
	}, nil
}
