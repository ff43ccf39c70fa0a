package heyreach

import (
	"context"
	"log/slog"
	"sort"

	"github.com/tombee/heyreach/internal/log"
	"github.com/tombee/heyreach/internal/operation"
)

// Handler executes one operation for one parameter bag.
type Handler func(c *Client, ctx context.Context, p operation.Params) (any, error)

// route binds a handler to its description.
type route struct {
	handler     Handler
	description string
	readOnly    bool
	params      []operation.ParameterInfo
}

var (
	campaignIDParamInfo = operation.ParameterInfo{Name: "campaignId", Type: "id", Required: true, Description: "Campaign id, numeric string or {mode, value} locator"}
	listIDParamInfo     = operation.ParameterInfo{Name: "listId", Type: "id", Required: true, Description: "List id, numeric string or {mode, value} locator"}
	profileURLParamInfo = operation.ParameterInfo{Name: "profileUrl", Type: "string", Required: true, Description: "https://www.linkedin.com/in/<username>"}
	returnAllParamInfo  = operation.ParameterInfo{Name: "returnAll", Type: "boolean", Default: false, Description: "Follow pagination to the end"}
	tagsParamInfo       = operation.ParameterInfo{Name: "tags", Type: "string", Required: true, Description: "Comma separated tag names"}
	createTagParamInfo  = operation.ParameterInfo{Name: "createTagIfNotExisting", Type: "boolean", Default: true}
	extraParamInfo      = operation.ParameterInfo{Name: "additionalFields", Type: "object", Description: "Optional filters"}
	leadModeParamInfo   = operation.ParameterInfo{Name: "leadsInputMode", Type: "string", Default: LeadsInputSingle, Description: "single or json"}
	leadsJSONParamInfo  = operation.ParameterInfo{Name: "leadsJson", Type: "json", Description: "Array of lead objects (json mode)"}
	leadFieldsParamInfo = []operation.ParameterInfo{
		{Name: "firstName", Type: "string", Description: "single mode"},
		{Name: "lastName", Type: "string", Description: "single mode"},
		{Name: "additionalLeadFields", Type: "object", Description: "location, companyName, position, summary, about, emailAddress, customUserFields, linkedInAccountId"},
	}
	identifierParamInfo = []operation.ParameterInfo{
		{Name: "leadProfileUrl", Type: "string"},
		{Name: "leadEmail", Type: "string"},
		{Name: "leadLinkedinId", Type: "string"},
		{Name: "offset", Type: "number", Default: 0},
		{Name: "limit", Type: "number", Default: 100},
	}
)

func limitParamInfo(def int) operation.ParameterInfo {
	return operation.ParameterInfo{Name: "limit", Type: "number", Default: def}
}

func joinParams(groups ...[]operation.ParameterInfo) []operation.ParameterInfo {
	var out []operation.ParameterInfo
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func one(params ...operation.ParameterInfo) []operation.ParameterInfo {
	return params
}

// routes is the complete routing table.
var routes = map[Resource]map[Operation]route{
	ResourceCampaign: {
		OpGet: {
			handler: (*Client).campaignGet, description: "Get a campaign by id", readOnly: true,
			params: one(campaignIDParamInfo),
		},
		OpGetMany: {
			handler: (*Client).campaignGetMany, description: "List campaigns", readOnly: true,
			params: one(returnAllParamInfo, limitParamInfo(50), extraParamInfo),
		},
		OpPause: {
			handler: (*Client).campaignPause, description: "Pause a campaign",
			params: one(campaignIDParamInfo),
		},
		OpResume: {
			handler: (*Client).campaignResume, description: "Resume a paused campaign",
			params: one(campaignIDParamInfo),
		},
		OpAddLeads: {
			handler: (*Client).campaignAddLeads, description: "Add leads to an active campaign",
			params: joinParams(one(campaignIDParamInfo, leadModeParamInfo, leadsJSONParamInfo, profileURLParamInfo), leadFieldsParamInfo),
		},
	},
	ResourceLead: {
		OpGetLead: {
			handler: (*Client).leadGet, description: "Get a lead by profile URL", readOnly: true,
			params: one(profileURLParamInfo),
		},
		OpAddTags: {
			handler: (*Client).leadAddTags, description: "Add tags to a lead",
			params: one(profileURLParamInfo, tagsParamInfo, createTagParamInfo),
		},
		OpGetTags: {
			handler: (*Client).leadGetTags, description: "Get the tags of a lead", readOnly: true,
			params: one(profileURLParamInfo),
		},
		OpReplaceTags: {
			handler: (*Client).leadReplaceTags, description: "Replace the tags of a lead",
			params: one(profileURLParamInfo, tagsParamInfo, createTagParamInfo),
		},
		OpGetLeadsFromCampaign: {
			handler: (*Client).leadGetLeadsFromCampaign, description: "List the leads of a campaign", readOnly: true,
			params: one(campaignIDParamInfo, returnAllParamInfo, limitParamInfo(100),
				operation.ParameterInfo{Name: "timeFrom", Type: "string"},
				operation.ParameterInfo{Name: "timeTo", Type: "string"},
				operation.ParameterInfo{Name: "timeFilter", Type: "string", Default: "Everywhere"}),
		},
		OpGetCampaignsForLead: {
			handler: (*Client).leadGetCampaignsForLead, description: "List the campaigns a lead belongs to", readOnly: true,
			params: identifierParamInfo,
		},
		OpStopLeadInCampaign: {
			handler: (*Client).leadStopInCampaign, description: "Stop a lead's progression in a campaign",
			params: one(campaignIDParamInfo,
				operation.ParameterInfo{Name: "leadMemberId", Type: "string"},
				operation.ParameterInfo{Name: "leadUrl", Type: "string"}),
		},
		OpGetLeadsFromList: {
			handler: (*Client).leadGetLeadsFromList, description: "List the leads of a list", readOnly: true,
			params: one(listIDParamInfo,
				operation.ParameterInfo{Name: "offset", Type: "number", Default: 0},
				limitParamInfo(100),
				operation.ParameterInfo{Name: "keyword", Type: "string"}),
		},
		OpGetListsForLead: {
			handler: (*Client).leadGetListsForLead, description: "List the lists a lead belongs to", readOnly: true,
			params: identifierParamInfo,
		},
		OpDeleteLeadsFromList: {
			handler: (*Client).leadDeleteFromList, description: "Remove leads from a list by profile URL",
			params: one(listIDParamInfo,
				operation.ParameterInfo{Name: "profileUrls", Type: "string", Required: true, Description: "Comma or newline separated profile URLs"}),
		},
	},
	ResourceList: {
		OpGetLists: {
			handler: (*Client).listGetLists, description: "List lead lists", readOnly: true,
			params: one(returnAllParamInfo, limitParamInfo(50)),
		},
		OpCreate: {
			handler: (*Client).listCreate, description: "Create an empty lead list",
			params: one(
				operation.ParameterInfo{Name: "listName", Type: "string", Required: true},
				operation.ParameterInfo{Name: "listType", Type: "string", Default: ListTypeUser}),
		},
		OpAddLeadsToList: {
			handler: (*Client).listAddLeads, description: "Add leads to a list",
			params: joinParams(one(listIDParamInfo, leadModeParamInfo, leadsJSONParamInfo, profileURLParamInfo), leadFieldsParamInfo),
		},
	},
	ResourceAnalytics: {
		OpGetOverallStats: {
			handler: (*Client).analyticsGetOverallStats, description: "Get overall outreach statistics", readOnly: true,
			params: one(
				operation.ParameterInfo{Name: "dateRange", Type: "string", Default: DateRangeAll, Description: "all, last7days, last30days, last90days or custom"},
				extraParamInfo),
		},
	},
	ResourceConversation: {
		OpGetConversations: {
			handler: (*Client).conversationGetMany, description: "List inbox conversations", readOnly: true,
			params: one(returnAllParamInfo, limitParamInfo(50), extraParamInfo),
		},
	},
	ResourceNetwork: {
		OpGetForSender: {
			handler: (*Client).networkGetForSender, description: "List the network of a sender account", readOnly: true,
			params: one(
				operation.ParameterInfo{Name: "linkedInAccountId", Type: "string", Required: true},
				returnAllParamInfo, limitParamInfo(50), extraParamInfo),
		},
	},
}

// Router dispatches (resource, operation) pairs to their handlers. It
// implements operation.Connector.
type Router struct {
	client *Client
	logger *slog.Logger
}

// NewRouter creates a router over client.
func NewRouter(client *Client, logger *slog.Logger) *Router {
	return &Router{
		client: client,
		logger: log.OrDiscard(logger),
	}
}

// Name returns "heyreach".
func (r *Router) Name() string {
	return "heyreach"
}

// Client returns the underlying request client.
func (r *Router) Client() *Client {
	return r.client
}

// Execute runs one operation.
func (r *Router) Execute(ctx context.Context, resource, op string, params operation.Params) (any, error) {
	ops, ok := routes[Resource(resource)]
	if !ok {
		return nil, operation.NewUnknownRouteError("unknown resource: %s", resource)
	}
	rt, ok := ops[Operation(op)]
	if !ok {
		return nil, operation.NewUnknownRouteError("unknown %s operation: %s", resource, op)
	}
	if params == nil {
		params = operation.Params{}
	}

	log.WithRoute(r.logger, resource, op).Debug("executing operation")
	return rt.handler(r.client, ctx, params)
}

// Operations lists every route, ordered by resource then operation.
func (r *Router) Operations() []operation.OperationInfo {
	return Operations()
}

// Operations describes the route table without needing a client.
func Operations() []operation.OperationInfo {
	var infos []operation.OperationInfo
	for resource, ops := range routes {
		for op, rt := range ops {
			infos = append(infos, operation.OperationInfo{
				Resource:    string(resource),
				Name:        string(op),
				Description: rt.description,
				Parameters:  rt.params,
				ReadOnly:    rt.readOnly,
			})
		}
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Resource != infos[j].Resource {
			return infos[i].Resource < infos[j].Resource
		}
		return infos[i].Name < infos[j].Name
	})
	return infos
}
