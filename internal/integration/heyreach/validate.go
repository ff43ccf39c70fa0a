package heyreach

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/tombee/heyreach/internal/operation"
)

var (
	profileURLPattern      = regexp.MustCompile(`^https://(www\.)?linkedin\.com/in/[\p{L}\p{N}\-_.%]+/?$`)
	customFieldNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// profileURLFormatHint is appended to URL errors raised while building leads.
const profileURLFormatHint = "Please use format: https://www.linkedin.com/in/username"

// IsValidProfileURL reports whether url is a LinkedIn member profile URL.
// Surrounding whitespace is ignored.
func IsValidProfileURL(url string) bool {
	trimmed := strings.TrimSpace(url)
	if trimmed == "" {
		return false
	}
	return profileURLPattern.MatchString(trimmed)
}

// ProfileURLProblem explains why url is not a valid profile URL. Checks run
// in a fixed order and the first failing one wins.
func ProfileURLProblem(url string) string {
	trimmed := strings.TrimSpace(url)
	switch {
	case trimmed == "":
		return "LinkedIn Profile URL is required and cannot be empty"
	case !strings.HasPrefix(trimmed, "https://"):
		return fmt.Sprintf(`LinkedIn Profile URL must start with "https://". Current URL: "%s"`, trimmed)
	case !strings.Contains(trimmed, "linkedin.com/in/"):
		return fmt.Sprintf(`LinkedIn Profile URL must contain "linkedin.com/in/". Current URL: "%s"`, trimmed)
	case strings.Contains(trimmed, "?"):
		return fmt.Sprintf(`LinkedIn Profile URL should not contain query parameters. Remove everything after "?" from: "%s"`, trimmed)
	case strings.Contains(trimmed, "#"):
		return fmt.Sprintf(`LinkedIn Profile URL should not contain hash fragments. Remove everything after "#" from: "%s"`, trimmed)
	default:
		return fmt.Sprintf(`LinkedIn Profile URL format is invalid. Expected format: "https://www.linkedin.com/in/username". Current URL: "%s"`, trimmed)
	}
}

// IsValidCustomFieldName reports whether name is usable as a custom user
// field name.
func IsValidCustomFieldName(name string) bool {
	return customFieldNamePattern.MatchString(name)
}

// ParseID extracts a positive integer id from a number, a numeric string, or
// a {mode, value} locator. field names the parameter in error messages, for
// example "campaign ID".
func ParseID(value any, field string) (int64, error) {
	if loc, ok := operation.AsLocator(value); ok {
		value = loc.Value
	}

	switch v := value.(type) {
	case nil:
		return 0, operation.NewValidationError("%s is required", capitalize(field))
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, operation.NewValidationError("%s is required", capitalize(field))
		}
		id, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil || id <= 0 {
			return 0, operation.NewValidationError("Invalid %s: %s. Must be a positive integer.", field, v)
		}
		return id, nil
	default:
		id, err := operation.ToInt64(v)
		if err != nil || id <= 0 {
			return 0, operation.NewValidationError("Invalid %s: %v. Must be a positive integer.", field, v)
		}
		return id, nil
	}
}

// ParseIDList parses a comma separated id list. Blank entries are skipped and
// duplicates removed, keeping first-seen order.
func ParseIDList(csv, field string) ([]int64, error) {
	var ids []int64
	seen := make(map[int64]bool)
	for _, tok := range strings.Split(csv, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		id, err := strconv.ParseInt(tok, 10, 64)
		if err != nil || id <= 0 {
			return nil, operation.NewValidationError("Invalid %s: %s. All IDs must be positive integers.", field, tok)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// dateLayouts are the input formats accepted for date parameters.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses a date parameter. Values without a zone are read as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// FormatDate renders t the way the upstream expects: RFC 3339 in UTC with
// millisecond precision.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// ValidateDateRange checks that start and end parse, that start is before
// end, and that start is not after now.
func ValidateDateRange(start, end string, now time.Time) error {
	s, err := ParseDate(start)
	if err != nil {
		return operation.NewValidationError("Invalid start date format: %s", start)
	}
	e, err := ParseDate(end)
	if err != nil {
		return operation.NewValidationError("Invalid end date format: %s", end)
	}
	if !s.Before(e) {
		return operation.NewValidationError("Start date must be before end date")
	}
	if s.After(now) {
		return operation.NewValidationError("Start date cannot be in the future")
	}
	return nil
}

// ValidatePagination checks limit bounds for single-page requests.
func ValidatePagination(limit int, returnAll bool) error {
	if !returnAll && (limit < 1 || limit > PageSize) {
		return operation.NewValidationError("Limit must be between 1 and 100 when not returning all results")
	}
	return nil
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
