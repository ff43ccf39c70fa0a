package heyreach

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tombee/heyreach/internal/operation"
)

// FetchAll follows offset pagination on endpoint until the upstream runs out
// of items. It starts at body["offset"] (default 0) and always asks for
// PageSize items. A response without an "items" array is returned as the
// single element of the result. body is not modified.
func (c *Client) FetchAll(ctx context.Context, method, endpoint string, body map[string]any) ([]any, error) {
	page := make(map[string]any, len(body)+2)
	for k, v := range body {
		page[k] = v
	}

	offset := int64(0)
	if v, ok := body["offset"]; ok && v != nil {
		n, err := operation.ToInt64(v)
		if err != nil {
			return nil, operation.NewValidationError("Invalid offset: %v", v)
		}
		offset = n
	}

	var all []any
	for pages := 0; ; pages++ {
		if pages >= c.maxPages {
			return nil, &operation.Error{
				Type:    operation.ErrorTypeUpstream,
				Message: fmt.Sprintf("pagination exceeded %d pages", c.maxPages),
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, operation.NewUnknownError(err)
		}

		page["offset"] = offset
		page["limit"] = PageSize

		resp, err := c.Request(ctx, method, endpoint, page, nil)
		if err != nil {
			return nil, err
		}
		c.metrics.RecordPage(endpoint)

		items, ok := itemsOf(resp)
		if !ok {
			return append(all, resp), nil
		}
		all = append(all, items...)
		offset += PageSize

		c.logger.Debug("fetched page",
			"endpoint", endpoint,
			"page", pages+1,
			"page_items", len(items),
			"accumulated", len(all),
		)

		if len(items) < PageSize || int64(len(all)) >= totalCountOf(resp) {
			return all, nil
		}
	}
}

// itemsOf returns the "items" array of a paginated envelope.
func itemsOf(resp any) ([]any, bool) {
	obj, ok := resp.(map[string]any)
	if !ok {
		return nil, false
	}
	items, ok := obj["items"].([]any)
	return items, ok
}

// itemsOrEmpty returns the envelope's items, or an empty list.
func itemsOrEmpty(resp any) []any {
	if items, ok := itemsOf(resp); ok {
		return items
	}
	return []any{}
}

// totalCountOf returns the envelope's totalCount, or 0 when absent.
func totalCountOf(resp any) int64 {
	obj, ok := resp.(map[string]any)
	if !ok {
		return 0
	}
	n, err := operation.ToInt64(obj["totalCount"])
	if err != nil {
		return 0
	}
	return n
}

// collect fetches one page of endpoint, or every page when returnAll is set.
// The page items are returned; a missing items array yields an empty list.
func (c *Client) collect(ctx context.Context, endpoint string, body map[string]any, returnAll bool) ([]any, error) {
	if returnAll {
		return c.FetchAll(ctx, http.MethodPost, endpoint, body)
	}
	resp, err := c.Request(ctx, http.MethodPost, endpoint, body, nil)
	if err != nil {
		return nil, err
	}
	return itemsOrEmpty(resp), nil
}

// decodePaging reads returnAll and limit for endpoints capped at PageSize.
func decodePaging(p operation.Params, defaultLimit int, errs *operation.FieldErrors) (bool, int) {
	returnAll, err := p.Bool("returnAll", false)
	errs.AddErr("returnAll", err)
	limit, err := p.Int("limit", defaultLimit)
	errs.AddErr("limit", err)
	if err != nil {
		return returnAll, defaultLimit
	}
	if limit > PageSize {
		errs.Add("limit", "Limit cannot exceed 100. HeyReach API has a maximum limit of 100.")
	} else if verr := ValidatePagination(limit, returnAll); verr != nil {
		errs.AddErr("limit", verr)
	}
	return returnAll, limit
}

// pageLimit is the limit sent on the first request of a listing.
func pageLimit(returnAll bool, limit int) int {
	if returnAll {
		return PageSize
	}
	return limit
}
