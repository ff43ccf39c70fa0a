package heyreach

import (
	"encoding/json"
	"strings"

	"github.com/tombee/heyreach/internal/operation"
)

// Lead input modes.
const (
	LeadsInputSingle = "single"
	LeadsInputJSON   = "json"
)

// leadEntry is one validated lead and its optional sender account.
type leadEntry struct {
	lead      any
	accountID any
}

// decodeLeads reads the leads of an add-leads request. Every lead is
// validated before anything is returned, so a bad lead anywhere in a batch
// rejects the whole batch.
func decodeLeads(p operation.Params) ([]leadEntry, error) {
	mode := p.String("leadsInputMode", LeadsInputSingle)
	if mode == LeadsInputSingle {
		entry, err := decodeSingleLead(p)
		if err != nil {
			return nil, err
		}
		return []leadEntry{entry}, nil
	}
	return decodeLeadsJSON(p)
}

func decodeSingleLead(p operation.Params) (leadEntry, error) {
	lead := &Lead{
		ProfileURL: p.String("profileUrl", ""),
		FirstName:  p.String("firstName", ""),
		LastName:   p.String("lastName", ""),
	}
	if !IsValidProfileURL(lead.ProfileURL) {
		return leadEntry{}, operation.NewValidationError("Invalid LinkedIn profile URL format. %s", profileURLFormatHint)
	}

	extra := p.Section("additionalLeadFields")
	lead.Location = extra.String("location", "")
	lead.CompanyName = extra.String("companyName", "")
	lead.Position = extra.String("position", "")
	lead.Summary = extra.String("summary", "")
	lead.About = extra.String("about", "")
	lead.EmailAddress = extra.String("emailAddress", "")

	for _, field := range extra.Maps("customUserFields") {
		fp := operation.Params(field)
		name, value := fp.String("name", ""), fp.String("value", "")
		if name == "" || value == "" {
			continue
		}
		if !IsValidCustomFieldName(name) {
			return leadEntry{}, invalidCustomFieldName(name)
		}
		lead.CustomUserFields = append(lead.CustomUserFields, CustomUserField{Name: name, Value: value})
	}

	entry := leadEntry{lead: lead}
	if extra.Has("linkedInAccountId") {
		raw, _ := extra.Raw("linkedInAccountId")
		id, err := ParseID(raw, "LinkedIn account ID")
		if err != nil {
			return leadEntry{}, err
		}
		entry.accountID = id
	}
	return entry, nil
}

// decodeLeadsJSON accepts leadsJson either as JSON text or as an already
// decoded list. Lead objects are passed upstream unchanged.
func decodeLeadsJSON(p operation.Params) ([]leadEntry, error) {
	raw, _ := p.Raw("leadsJson")

	var data any
	switch v := raw.(type) {
	case string:
		if err := json.Unmarshal([]byte(strings.TrimSpace(v)), &data); err != nil {
			return nil, operation.NewValidationError("Invalid JSON format: %v", err)
		}
	case nil:
		return nil, operation.NewValidationError("Invalid JSON format: leadsJson is empty")
	default:
		data = v
	}

	list, ok := data.([]any)
	if !ok {
		if maps, isMaps := data.([]map[string]any); isMaps {
			list = make([]any, len(maps))
			for i := range maps {
				list[i] = maps[i]
			}
		} else {
			return nil, operation.NewValidationError("Leads JSON must be an array of lead objects")
		}
	}

	entries := make([]leadEntry, 0, len(list))
	for _, item := range list {
		lead := object(item)
		if lead == nil || !truthy(lead["profileUrl"]) || !truthy(lead["firstName"]) || !truthy(lead["lastName"]) {
			return nil, operation.NewValidationError("Each lead must have profileUrl, firstName, and lastName")
		}
		if url := str(lead, "profileUrl"); !IsValidProfileURL(url) {
			return nil, operation.NewValidationError("Invalid LinkedIn profile URL format: %s", url)
		}
		if fields, ok := lead["customUserFields"].([]any); ok {
			for _, f := range fields {
				name := str(object(f), "name")
				if name != "" && !IsValidCustomFieldName(name) {
					return nil, invalidCustomFieldName(name)
				}
			}
		}

		entry := leadEntry{lead: lead}
		if truthy(lead["linkedInAccountId"]) {
			entry.accountID = lead["linkedInAccountId"]
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func invalidCustomFieldName(name string) error {
	return operation.NewValidationError(`Invalid custom field name "%s". Name must contain only alphanumeric characters and underscores.`, name)
}
