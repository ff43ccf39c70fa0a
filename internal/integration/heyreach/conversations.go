package heyreach

import (
	"context"
	"math"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/tombee/heyreach/internal/operation"
)

func (c *Client) conversationGetMany(ctx context.Context, p operation.Params) (any, error) {
	var errs operation.FieldErrors
	returnAll, limit := decodePaging(p, 50, &errs)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	extra := p.Section("additionalFields")
	body := map[string]any{
		"offset": 0,
		"limit":  pageLimit(returnAll, limit),
	}

	if rs := extra.String("readStatus", "all"); rs != "" && rs != "all" {
		body["read"] = rs == "read"
	}
	if raw := extra.String("campaignId", ""); raw != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, operation.NewValidationError("Invalid campaign ID: %s", raw)
		}
		body["campaignId"] = id
	}
	if raw := extra.String("linkedInAccountId", ""); raw != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, operation.NewValidationError("Invalid LinkedIn account ID: %s", raw)
		}
		body["linkedInAccountId"] = id
	}
	if include, err := extra.Bool("includeMessages", false); err != nil {
		return nil, operation.NewValidationError("%v", err)
	} else if include {
		body["includeMessages"] = true
	}
	messageTypes := extra.Strings("messageTypeFilter")
	if len(messageTypes) > 0 {
		body["messageTypes"] = messageTypes
	}
	if gc := extra.String("groupChatFilter", "all"); gc != "" && gc != "all" {
		body["groupChat"] = gc == "group"
	}

	now := c.now()
	dates, err := resolveDateRange(extra.String("dateRange", DateRangeAll), extra, now, "last7days", "last30days")
	if err != nil {
		return nil, err
	}
	for k, v := range dates {
		body[k] = v
	}

	conversations, err := c.collect(ctx, "/conversation/GetConversationsV2", body, returnAll)
	if err != nil {
		return nil, rephrase(err, http.StatusBadRequest,
			"Invalid filter parameters. Please check your campaign ID, account ID, and date range values.")
	}
	return shapeConversations(conversations, messageTypes, now), nil
}

// shapeConversations filters by last message type, orders by most recent
// message first and adds convenience fields.
func shapeConversations(conversations []any, messageTypes []string, now time.Time) []any {
	out := make([]any, 0, len(conversations))
	for _, item := range conversations {
		conv := object(item)
		if conv == nil {
			continue
		}
		if len(messageTypes) > 0 && !slices.Contains(messageTypes, str(conv, "lastMessageType")) {
			continue
		}
		out = append(out, conv)
	}

	slices.SortStableFunc(out, func(a, b any) int {
		ta, tb := lastMessageAt(object(a)), lastMessageAt(object(b))
		return tb.Compare(ta)
	})

	for i, item := range out {
		conv := object(item)
		shaped := make(map[string]any, len(conv)+4)
		for k, v := range conv {
			shaped[k] = v
		}
		read, _ := conv["read"].(bool)
		shaped["isUnread"] = !read
		shaped["hasMessages"] = count(conv, "totalMessages") > 0
		shaped["lastMessageAge"] = nil
		if t := lastMessageAt(conv); !t.IsZero() {
			shaped["lastMessageAge"] = int64(math.Floor(now.Sub(t).Hours() / 24))
		}
		shaped["correspondentName"] = "Unknown"
		if profile := object(conv["correspondentProfile"]); profile != nil {
			shaped["correspondentName"] = fullName(profile)
		}
		out[i] = shaped
	}
	return out
}

func lastMessageAt(conv map[string]any) time.Time {
	s := str(conv, "lastMessageAt")
	if s == "" {
		return time.Time{}
	}
	t, err := ParseDate(s)
	if err != nil {
		return time.Time{}
	}
	return t
}
