package heyreach

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tombee/heyreach/internal/operation"
)

// Resource is a resource family.
type Resource string

// Operation is an operation name within a resource.
type Operation string

const (
	ResourceCampaign     Resource = "campaign"
	ResourceLead         Resource = "lead"
	ResourceList         Resource = "list"
	ResourceAnalytics    Resource = "analytics"
	ResourceConversation Resource = "conversation"
	ResourceNetwork      Resource = "network"
)

const (
	// campaign
	OpGet      Operation = "get"
	OpGetMany  Operation = "getMany"
	OpPause    Operation = "pause"
	OpResume   Operation = "resume"
	OpAddLeads Operation = "addLeads"

	// lead
	OpGetLead              Operation = "getLead"
	OpAddTags              Operation = "addTags"
	OpGetTags              Operation = "getTags"
	OpReplaceTags          Operation = "replaceTags"
	OpGetLeadsFromCampaign Operation = "getLeadsFromCampaign"
	OpGetCampaignsForLead  Operation = "getCampaignsForLead"
	OpStopLeadInCampaign   Operation = "stopLeadInCampaign"
	OpGetLeadsFromList     Operation = "getLeadsFromList"
	OpGetListsForLead      Operation = "getListsForLead"
	OpDeleteLeadsFromList  Operation = "deleteLeadsFromList"

	// list
	OpGetLists       Operation = "getLists"
	OpCreate         Operation = "create"
	OpAddLeadsToList Operation = "addLeadsToList"

	// analytics
	OpGetOverallStats Operation = "getOverallStats"

	// conversation
	OpGetConversations Operation = "getConversations"

	// network
	OpGetForSender Operation = "getForSender"
)

// Campaign statuses.
const (
	StatusDraft      = "DRAFT"
	StatusInProgress = "IN_PROGRESS"
	StatusPaused     = "PAUSED"
	StatusFinished   = "FINISHED"
	StatusCanceled   = "CANCELED"
	StatusFailed     = "FAILED"
	StatusStarting   = "STARTING"
)

// List types.
const (
	ListTypeUser    = "USER_LIST"
	ListTypeCompany = "COMPANY_LIST"
)

// CustomUserField is a named free-form value attached to a lead.
type CustomUserField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Lead is the lead shape sent when adding a single lead.
type Lead struct {
	ProfileURL       string            `json:"profileUrl"`
	FirstName        string            `json:"firstName"`
	LastName         string            `json:"lastName"`
	Location         string            `json:"location,omitempty"`
	CompanyName      string            `json:"companyName,omitempty"`
	Position         string            `json:"position,omitempty"`
	Summary          string            `json:"summary,omitempty"`
	About            string            `json:"about,omitempty"`
	EmailAddress     string            `json:"emailAddress,omitempty"`
	CustomUserFields []CustomUserField `json:"customUserFields,omitempty"`
}

// AccountLeadPair binds a lead to the sender account that should contact it.
// Lead is either a *Lead or a caller-supplied object passed through as is.
type AccountLeadPair struct {
	LinkedInAccountID any `json:"linkedInAccountId,omitempty"`
	Lead              any `json:"lead"`
}

// LeadCounts is the upstream's tally for an add-leads request.
type LeadCounts struct {
	LeadsProcessed    int   `json:"leadsProcessed"`
	AddedLeadsCount   int64 `json:"addedLeadsCount"`
	UpdatedLeadsCount int64 `json:"updatedLeadsCount"`
	FailedLeadsCount  int64 `json:"failedLeadsCount"`
}

// CampaignLeadsResult is returned by campaign addLeads.
type CampaignLeadsResult struct {
	CampaignID     int64  `json:"campaignId"`
	CampaignName   string `json:"campaignName"`
	CampaignStatus string `json:"campaignStatus"`
	LeadCounts
}

// ListLeadsResult is returned by list addLeadsToList.
type ListLeadsResult struct {
	ListID int64 `json:"listId"`
	LeadCounts
}

func leadCounts(processed int, resp any) LeadCounts {
	m := object(resp)
	return LeadCounts{
		LeadsProcessed:    processed,
		AddedLeadsCount:   count(m, "addedLeadsCount"),
		UpdatedLeadsCount: count(m, "updatedLeadsCount"),
		FailedLeadsCount:  count(m, "failedLeadsCount"),
	}
}

// object returns v as a JSON object, or nil.
func object(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// str returns the string form of m[key], or "" when absent.
func str(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// count returns m[key] as an integer, or 0 when absent or not numeric.
func count(m map[string]any, key string) int64 {
	n, err := operation.ToInt64(m[key])
	if err != nil {
		return 0
	}
	return n
}

// truthy mirrors loose JSON truthiness for optional profile fields.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	default:
		return true
	}
}

// fullName joins first and last name, trimmed.
func fullName(m map[string]any) string {
	return strings.TrimSpace(str(m, "firstName") + " " + str(m, "lastName"))
}
