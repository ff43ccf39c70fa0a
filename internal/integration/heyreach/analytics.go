package heyreach

import (
	"context"
	"net/http"
	"time"

	"github.com/tombee/heyreach/internal/operation"
)

// Date range presets.
const (
	DateRangeAll    = "all"
	DateRangeCustom = "custom"
)

// presetDays maps relative date range presets to their length in days.
var presetDays = map[string]int{
	"last7days":  7,
	"last30days": 30,
	"last90days": 90,
}

// resolveDateRange turns a date range choice into startDate/endDate body
// fields. allowed limits which relative presets the caller supports; an
// unknown preset sets no dates.
func resolveDateRange(rangeName string, extra operation.Params, now time.Time, allowed ...string) (map[string]any, error) {
	switch rangeName {
	case "", DateRangeAll:
		return nil, nil
	case DateRangeCustom:
		start := extra.String("startDate", "")
		end := extra.String("endDate", "")
		if start == "" || end == "" {
			return nil, operation.NewValidationError("Start date and end date are required for custom date range")
		}
		s, err := ParseDate(start)
		if err != nil {
			return nil, operation.NewValidationError("Invalid start date format: %s", start)
		}
		e, err := ParseDate(end)
		if err != nil {
			return nil, operation.NewValidationError("Invalid end date format: %s", end)
		}
		if !s.Before(e) {
			return nil, operation.NewValidationError("Start date must be before end date")
		}
		return map[string]any{"startDate": FormatDate(s), "endDate": FormatDate(e)}, nil
	}

	for _, name := range allowed {
		if name != rangeName {
			continue
		}
		days := presetDays[name]
		return map[string]any{
			"startDate": FormatDate(now.AddDate(0, 0, -days)),
			"endDate":   FormatDate(now),
		}, nil
	}
	return nil, nil
}

func (c *Client) analyticsGetOverallStats(ctx context.Context, p operation.Params) (any, error) {
	rangeName := p.String("dateRange", DateRangeAll)
	extra := p.Section("additionalFields")

	body := map[string]any{}
	dates, err := resolveDateRange(rangeName, extra, c.now(), "last7days", "last30days", "last90days")
	if err != nil {
		return nil, err
	}
	for k, v := range dates {
		body[k] = v
	}

	var errs operation.FieldErrors
	accountIDs, err := ParseIDList(extra.String("accountIds", ""), "account ID")
	errs.AddErr("accountIds", err)
	campaignIDs, err := ParseIDList(extra.String("campaignIds", ""), "campaign ID")
	errs.AddErr("campaignIds", err)
	if extra.Has("includeDailyBreakdown") {
		daily, err := extra.Bool("includeDailyBreakdown", true)
		errs.AddErr("includeDailyBreakdown", err)
		body["includeDailyBreakdown"] = daily
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	if len(accountIDs) > 0 {
		body["accountIds"] = accountIDs
	}
	if len(campaignIDs) > 0 {
		body["campaignIds"] = campaignIDs
	}

	resp, err := c.Request(ctx, http.MethodPost, "/analytics/GetOverallStats", body, nil)
	if err != nil {
		return nil, rephrase(err, http.StatusBadRequest,
			"Invalid date range or filter parameters. Please check your input values.")
	}

	stats := object(resp)
	if metrics := extra.Strings("metricsToInclude"); len(metrics) > 0 {
		stats = filterMetrics(stats, metrics)
	}

	out := make(map[string]any, len(stats)+2)
	for k, v := range stats {
		out[k] = v
	}
	out["dateRange"] = rangeName
	out["filters"] = map[string]any{
		"accountIds":  idsOrEmpty(accountIDs),
		"campaignIds": idsOrEmpty(campaignIDs),
		"startDate":   body["startDate"],
		"endDate":     body["endDate"],
	}
	return out, nil
}

// filterMetrics keeps only the named metrics in overallStats and in each day
// of byDayStats. Other top-level keys are dropped.
func filterMetrics(stats map[string]any, metrics []string) map[string]any {
	if stats == nil {
		return nil
	}
	pick := func(src map[string]any) map[string]any {
		dst := make(map[string]any, len(metrics))
		for _, m := range metrics {
			if v, ok := src[m]; ok {
				dst[m] = v
			}
		}
		return dst
	}

	out := map[string]any{}
	if overall := object(stats["overallStats"]); overall != nil {
		out["overallStats"] = pick(overall)
	}
	if days := object(stats["byDayStats"]); days != nil {
		filtered := make(map[string]any, len(days))
		for date, day := range days {
			filtered[date] = pick(object(day))
		}
		out["byDayStats"] = filtered
	}
	return out
}

func idsOrEmpty(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
