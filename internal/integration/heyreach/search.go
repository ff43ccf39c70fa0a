package heyreach

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SearchResult is one choice offered by a resource picker.
type SearchResult struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// SearchCampaigns lists up to one page of campaigns whose display name
// contains filter, ignoring case. Failures are logged and yield no results.
func (c *Client) SearchCampaigns(ctx context.Context, filter string) []SearchResult {
	return c.search(ctx, "/campaign/GetAll", filter, func(item map[string]any) SearchResult {
		return SearchResult{
			Name:        fmt.Sprintf("%s (%s)", str(item, "name"), str(item, "status")),
			Value:       str(item, "id"),
			Description: fmt.Sprintf("Campaign ID: %s, Status: %s", str(item, "id"), str(item, "status")),
		}
	})
}

// SearchLists lists up to one page of lead lists whose display name contains
// filter, ignoring case. Failures are logged and yield no results.
func (c *Client) SearchLists(ctx context.Context, filter string) []SearchResult {
	return c.search(ctx, "/list/GetAll", filter, func(item map[string]any) SearchResult {
		items := count(item, "totalItemsCount")
		return SearchResult{
			Name:        fmt.Sprintf("%s (%d items)", str(item, "name"), items),
			Value:       str(item, "id"),
			Description: fmt.Sprintf("List ID: %s, Items: %d", str(item, "id"), items),
		}
	})
}

func (c *Client) search(ctx context.Context, endpoint, filter string, render func(map[string]any) SearchResult) []SearchResult {
	resp, err := c.Request(ctx, http.MethodPost, endpoint, map[string]any{"offset": 0, "limit": PageSize}, nil)
	if err != nil {
		c.logger.Warn("search failed", "endpoint", endpoint, "error", err.Error())
		return []SearchResult{}
	}

	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(filter))

	results := []SearchResult{}
	for _, item := range itemsOrEmpty(resp) {
		obj := object(item)
		if obj == nil {
			continue
		}
		r := render(obj)
		if needle != "" && !strings.Contains(fold.String(r.Name), needle) {
			continue
		}
		results = append(results, r)
	}

	collator := collate.New(language.English, collate.IgnoreCase)
	slices.SortStableFunc(results, func(a, b SearchResult) int {
		return collator.CompareString(a.Name, b.Name)
	})
	return results
}
