package heyreach

import (
	"context"
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/tombee/heyreach/internal/operation"
)

// completenessFields are the profile fields counted by profileCompleteness.
var completenessFields = []string{
	"firstName", "lastName", "headline", "location",
	"companyName", "position", "about", "emailAddress",
}

type networkInput struct {
	accountID      int64
	returnAll      bool
	limit          int
	minConnections int64
	maxConnections int64
}

func (c *Client) networkGetForSender(ctx context.Context, p operation.Params) (any, error) {
	in := networkInput{}

	rawAccount := p.String("linkedInAccountId", "")
	id, err := strconv.ParseInt(strings.TrimSpace(rawAccount), 10, 64)
	if err != nil {
		return nil, operation.NewValidationError("Invalid LinkedIn account ID: %s", rawAccount)
	}
	in.accountID = id

	var errs operation.FieldErrors
	in.returnAll, in.limit = decodePaging(p, 50, &errs)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	extra := p.Section("additionalFields")
	body := map[string]any{
		"linkedInAccountId": in.accountID,
		"offset":            0,
		"limit":             pageLimit(in.returnAll, in.limit),
	}
	for _, key := range []string{"searchKeyword", "companyFilter", "locationFilter"} {
		if v := strings.TrimSpace(extra.String(key, "")); v != "" {
			body[key] = v
		}
	}
	if level := extra.String("connectionLevel", "all"); level != "" && level != "all" {
		body["connectionLevel"] = level
	}
	for _, key := range []string{"includeProfileDetails", "includeContactInfo"} {
		if !extra.Has(key) {
			continue
		}
		v, err := extra.Bool(key, false)
		if err != nil {
			return nil, operation.NewValidationError("%v", err)
		}
		body[key] = v
	}

	in.minConnections = positiveInt(extra, "minConnections")
	in.maxConnections = positiveInt(extra, "maxConnections")
	if in.minConnections > 0 {
		body["minConnections"] = in.minConnections
	}
	if in.maxConnections > 0 {
		body["maxConnections"] = in.maxConnections
	}
	if in.minConnections > 0 && in.maxConnections > 0 && in.minConnections > in.maxConnections {
		return nil, operation.NewValidationError("Minimum connections cannot be greater than maximum connections")
	}

	profiles, err := c.collect(ctx, "/network/GetMyNetworkForSender", body, in.returnAll)
	if err != nil {
		err = rephrase(err, http.StatusBadRequest,
			"Invalid LinkedIn account ID or filter parameters. Please check your input values.")
		return nil, rephrase(err, http.StatusForbidden,
			"Access denied. The LinkedIn account may not have permission to access network data or may not be properly authenticated.")
	}
	return shapeProfiles(profiles, in.minConnections, in.maxConnections), nil
}

// positiveInt returns extra[key] when it is a positive whole number, else 0.
func positiveInt(extra operation.Params, key string) int64 {
	n, err := extra.Int(key, 0)
	if err != nil || n <= 0 {
		return 0
	}
	return int64(n)
}

// shapeProfiles applies the connection range, orders by connection count
// and adds convenience fields. Zero bounds are unset.
func shapeProfiles(profiles []any, minConns, maxConns int64) []any {
	out := make([]any, 0, len(profiles))
	for _, item := range profiles {
		profile := object(item)
		if profile == nil {
			continue
		}
		conns := count(profile, "connections")
		if minConns > 0 && conns < minConns {
			continue
		}
		if maxConns > 0 && conns > maxConns {
			continue
		}
		out = append(out, profile)
	}

	slices.SortStableFunc(out, func(a, b any) int {
		ca, cb := count(object(a), "connections"), count(object(b), "connections")
		switch {
		case ca > cb:
			return -1
		case ca < cb:
			return 1
		default:
			return 0
		}
	})

	for i, item := range out {
		profile := object(item)
		shaped := make(map[string]any, len(profile)+6)
		for k, v := range profile {
			shaped[k] = v
		}
		shaped["fullName"] = fullName(profile)
		shaped["hasEmail"] = truthy(profile["emailAddress"])
		shaped["hasCompany"] = truthy(profile["companyName"])
		shaped["hasLocation"] = truthy(profile["location"])
		shaped["connectionLevel"] = ConnectionTier(count(profile, "connections"))
		shaped["profileCompleteness"] = ProfileCompleteness(profile)
		out[i] = shaped
	}
	return out
}

// ConnectionTier labels a connection count.
func ConnectionTier(connections int64) string {
	switch {
	case connections >= 500:
		return "Influencer (500+)"
	case connections >= 100:
		return "Well Connected (100-499)"
	case connections >= 50:
		return "Active (50-99)"
	case connections >= 10:
		return "Growing (10-49)"
	default:
		return "New (0-9)"
	}
}

// ProfileCompleteness is the percentage of completenessFields that are
// filled, rounded to the nearest whole number.
func ProfileCompleteness(profile map[string]any) int {
	filled := 0
	for _, f := range completenessFields {
		if truthy(profile[f]) {
			filled++
		}
	}
	return int(math.Round(float64(filled) / float64(len(completenessFields)) * 100))
}
