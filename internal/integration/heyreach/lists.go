package heyreach

import (
	"context"
	"net/http"
	"strings"

	"github.com/tombee/heyreach/internal/operation"
)

func (c *Client) listGetLists(ctx context.Context, p operation.Params) (any, error) {
	var errs operation.FieldErrors
	returnAll, limit := decodePaging(p, 50, &errs)
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return c.collect(ctx, "/list/GetAll", map[string]any{
		"offset": 0,
		"limit":  pageLimit(returnAll, limit),
	}, returnAll)
}

func (c *Client) listCreate(ctx context.Context, p operation.Params) (any, error) {
	name := strings.TrimSpace(p.String("listName", ""))
	if name == "" {
		return nil, operation.NewValidationError("List name is required")
	}
	listType := p.String("listType", ListTypeUser)

	return c.Request(ctx, http.MethodPost, "/list/CreateEmptyList", map[string]any{
		"name": name,
		"type": listType,
	}, nil)
}

func (c *Client) listAddLeads(ctx context.Context, p operation.Params) (any, error) {
	id, err := listIDParam(p)
	if err != nil {
		return nil, err
	}
	entries, err := decodeLeads(p)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, operation.NewValidationError("No valid leads to add to list")
	}

	leads := make([]any, len(entries))
	for i, e := range entries {
		leads[i] = e.lead
	}

	resp, err := c.Request(ctx, http.MethodPost, "/list/AddLeadsToListV2", map[string]any{
		"listId": id,
		"leads":  leads,
	}, nil)
	if err != nil {
		return nil, err
	}

	return &ListLeadsResult{
		ListID:     id,
		LeadCounts: leadCounts(len(leads), resp),
	}, nil
}
