package heyreach

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tombee/heyreach/internal/operation"
)

// GetCampaign fetches one campaign.
func (c *Client) GetCampaign(ctx context.Context, id int64) (map[string]any, error) {
	resp, err := c.Request(ctx, http.MethodGet, "/campaign/GetById", nil, campaignQuery(id))
	if err != nil {
		return nil, err
	}
	campaign, ok := resp.(map[string]any)
	if !ok {
		return nil, &operation.Error{
			Type:    operation.ErrorTypeNotFound,
			Message: fmt.Sprintf("Campaign with ID %d not found", id),
		}
	}
	return campaign, nil
}

func campaignQuery(id int64) map[string]string {
	return map[string]string{"campaignId": strconv.FormatInt(id, 10)}
}

func campaignIDParam(p operation.Params) (int64, error) {
	raw, _ := p.Raw("campaignId")
	return ParseID(raw, "campaign ID")
}

func (c *Client) campaignGet(ctx context.Context, p operation.Params) (any, error) {
	id, err := campaignIDParam(p)
	if err != nil {
		return nil, err
	}
	return c.GetCampaign(ctx, id)
}

func (c *Client) campaignGetMany(ctx context.Context, p operation.Params) (any, error) {
	var errs operation.FieldErrors
	returnAll, limit := decodePaging(p, 50, &errs)

	extra := p.Section("additionalFields")
	body := map[string]any{
		"offset": 0,
		"limit":  pageLimit(returnAll, limit),
	}
	if keyword := extra.String("keyword", ""); keyword != "" {
		body["keyword"] = keyword
	}
	if statuses := extra.Strings("statuses"); len(statuses) > 0 {
		body["statuses"] = statuses
	}
	if csv := extra.String("accountIds", ""); csv != "" {
		ids, err := ParseIDList(csv, "account ID")
		errs.AddErr("accountIds", err)
		if len(ids) > 0 {
			body["accountIds"] = ids
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	return c.collect(ctx, "/campaign/GetAll", body, returnAll)
}

// toggle describes a pause or resume request and how to recognise a
// rejection that may have taken effect anyway.
type toggle struct {
	operation Operation
	endpoint  string
	status    string
	phrases   []string
}

var (
	pauseToggle = toggle{
		operation: OpPause,
		endpoint:  "/campaign/Pause",
		status:    StatusPaused,
		phrases:   []string{"You cannot pause an inactive campaign"},
	}
	resumeToggle = toggle{
		operation: OpResume,
		endpoint:  "/campaign/Resume",
		status:    StatusInProgress,
		phrases:   []string{"cannot resume", "inactive campaign"},
	}
)

// Reconciliation outcomes recorded in metrics.
const (
	reconcileRecovered  = "recovered"
	reconcileRejected   = "rejected"
	reconcileUnverified = "unverified"
)

func (c *Client) campaignPause(ctx context.Context, p operation.Params) (any, error) {
	id, err := campaignIDParam(p)
	if err != nil {
		return nil, err
	}
	return c.reconcileToggle(ctx, pauseToggle, id)
}

func (c *Client) campaignResume(ctx context.Context, p operation.Params) (any, error) {
	id, err := campaignIDParam(p)
	if err != nil {
		return nil, err
	}
	return c.reconcileToggle(ctx, resumeToggle, id)
}

// reconcileToggle sends a pause or resume request. When the upstream rejects
// it with one of the toggle's phrases, the campaign is fetched once and the
// request counts as applied if the campaign is already in the target status.
// In every other case the original rejection is returned.
func (c *Client) reconcileToggle(ctx context.Context, t toggle, id int64) (any, error) {
	resp, err := c.Request(ctx, http.MethodPost, t.endpoint, nil, campaignQuery(id))
	if err == nil {
		return toggleResult(resp, id, t.status), nil
	}
	if !mentionsAny(err, t.phrases) {
		return nil, err
	}

	logger := c.logger.With("operation", string(t.operation), "campaign_id", id)
	logger.Warn("campaign toggle rejected, verifying current status", "error", err.Error())

	fresh, verr := c.GetCampaign(ctx, id)
	if verr != nil {
		c.metrics.RecordReconciliation(string(t.operation), reconcileUnverified)
		logger.Warn("campaign status verification failed", "error", verr.Error())
		return nil, err
	}
	if status := str(fresh, "status"); status != t.status {
		c.metrics.RecordReconciliation(string(t.operation), reconcileRejected)
		logger.Info("campaign not in target status", "status", status)
		return nil, err
	}

	c.metrics.RecordReconciliation(string(t.operation), reconcileRecovered)
	logger.Info("campaign reached target status despite rejection", "status", t.status)
	return fresh, nil
}

// toggleResult picks the campaign out of a pause or resume response.
func toggleResult(resp any, id int64, status string) any {
	if obj := object(resp); obj != nil {
		if items, ok := obj["items"].([]any); ok && len(items) > 0 {
			return items[0]
		}
		if truthy(obj["id"]) {
			return obj
		}
	}
	return map[string]any{"id": id, "status": status}
}

func mentionsAny(err error, phrases []string) bool {
	var opErr *operation.Error
	if !errors.As(err, &opErr) {
		return false
	}
	text := opErr.Upstream()
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

// checkCampaignAcceptsLeads reports whether leads may be added to campaign.
func checkCampaignAcceptsLeads(campaign map[string]any) error {
	status := str(campaign, "status")
	if status != StatusInProgress && status != StatusPaused {
		return operation.NewValidationError(
			`Cannot add leads for campaign with status "%s". Campaign must be IN_PROGRESS or PAUSED. Current status: %s`,
			status, status)
	}
	accounts, _ := campaign["campaignAccountIds"].([]any)
	if len(accounts) == 0 {
		return operation.NewValidationError(
			`Cannot add leads for campaign "%s". Campaign must have LinkedIn accounts assigned.`,
			str(campaign, "name"))
	}
	return nil
}

func (c *Client) campaignAddLeads(ctx context.Context, p operation.Params) (any, error) {
	id, err := campaignIDParam(p)
	if err != nil {
		return nil, err
	}
	leads, err := decodeLeads(p)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return nil, operation.NewValidationError("No valid leads to add to campaign")
	}

	campaign, err := c.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkCampaignAcceptsLeads(campaign); err != nil {
		return nil, err
	}

	pairs := make([]AccountLeadPair, len(leads))
	for i, l := range leads {
		pairs[i] = AccountLeadPair{LinkedInAccountID: l.accountID, Lead: l.lead}
	}

	resp, err := c.Request(ctx, http.MethodPost, "/campaign/AddLeadsToCampaignV2", map[string]any{
		"campaignId":       id,
		"accountLeadPairs": pairs,
	}, nil)
	if err != nil {
		return nil, err
	}

	return &CampaignLeadsResult{
		CampaignID:     id,
		CampaignName:   str(campaign, "name"),
		CampaignStatus: str(campaign, "status"),
		LeadCounts:     leadCounts(len(pairs), resp),
	}, nil
}
