package heyreach

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tombee/heyreach/internal/operation"
	"github.com/tombee/heyreach/internal/operation/transport"
)

// inconsistencyPhrases are 400 messages the upstream sends for pause and
// resume requests that may have taken effect anyway.
var inconsistencyPhrases = []string{
	"You cannot pause an inactive campaign",
	"cannot resume",
	"not paused, finished or failed",
}

// maxDetailLength bounds how much of a non-JSON error body is kept.
const maxDetailLength = 512

// classifyError converts a transport failure into an *operation.Error.
func classifyError(err error) *operation.Error {
	var terr *transport.TransportError
	if !errors.As(err, &terr) || terr.Type != transport.ErrorTypeStatus {
		return operation.NewUnknownError(err)
	}

	detail := errorDetail(terr.Body)

	if terr.StatusCode == http.StatusBadRequest && isInconsistency(detail, terr.Body) {
		msg := detail
		if msg == "" {
			msg = strings.TrimSpace(string(terr.Body))
		}
		return &operation.Error{
			Type:         operation.ErrorTypeBadRequest,
			Message:      msg,
			StatusCode:   terr.StatusCode,
			Inconsistent: true,
		}
	}

	opErr := operation.ErrorFromHTTPStatus(terr.StatusCode, detail)
	if terr.StatusCode == http.StatusTooManyRequests {
		if retryAfter, ok := terr.Metadata[transport.MetadataRetryAfter].(string); ok && retryAfter != "" {
			opErr.SuggestText = fmt.Sprintf("Retry after %s seconds", retryAfter)
		}
	}
	return opErr
}

// errorDetail extracts the upstream's own message from an error body: a
// bare JSON string, an object with "error" or "message", or plain text.
func errorDetail(body []byte) string {
	raw := bytes.TrimSpace(body)
	if len(raw) == 0 {
		return ""
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		text := string(raw)
		if len(text) > maxDetailLength {
			text = text[:maxDetailLength]
		}
		return text
	}

	switch v := decoded.(type) {
	case string:
		return v
	case map[string]any:
		for _, key := range []string{"error", "message", "Message", "title"} {
			if s, ok := v[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func isInconsistency(detail string, body []byte) bool {
	for _, phrase := range inconsistencyPhrases {
		if strings.Contains(detail, phrase) || bytes.Contains(body, []byte(phrase)) {
			return true
		}
	}
	return false
}

// rephrase replaces the message of an upstream status error while keeping
// its classification and upstream detail. Other errors pass through.
func rephrase(err error, status int, message string) error {
	var opErr *operation.Error
	if !errors.As(err, &opErr) || opErr.StatusCode != status {
		return err
	}
	return &operation.Error{
		Type:        opErr.Type,
		Message:     message,
		Description: opErr.Description,
		StatusCode:  opErr.StatusCode,
		Detail:      opErr.Detail,
		SuggestText: opErr.SuggestText,
	}
}
