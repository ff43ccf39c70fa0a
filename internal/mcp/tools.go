// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tombee/heyreach/internal/operation"
)

// ToolName returns the tool name for a route, e.g. heyreach_campaign_getMany.
func ToolName(resource, op string) string {
	return "heyreach_" + resource + "_" + op
}

func (s *Server) addTool(info operation.OperationInfo) {
	properties := make(map[string]any, len(info.Parameters))
	var required []string
	for _, p := range info.Parameters {
		properties[p.Name] = propertySchema(p)
		if p.Required {
			required = append(required, p.Name)
		}
	}

	description := info.Description
	if info.ReadOnly {
		description += " (read-only)"
	}

	tool := mcp.Tool{
		Name:        ToolName(info.Resource, info.Name),
		Description: description,
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: properties,
			Required:   required,
		},
	}
	handler := s.toolHandler(info)

	s.tools = append(s.tools, tool)
	s.handlers[tool.Name] = handler
	s.mcpServer.AddTool(tool, handler)
}

// propertySchema maps a parameter description onto JSON Schema. Ids accept a
// number, a numeric string or a locator object, so they carry no type.
func propertySchema(p operation.ParameterInfo) map[string]any {
	schema := map[string]any{}
	switch p.Type {
	case "string", "number", "boolean", "object":
		schema["type"] = p.Type
	}
	if p.Description != "" {
		schema["description"] = p.Description
	}
	if p.Default != nil {
		schema["default"] = p.Default
	}
	return schema
}

func (s *Server) toolHandler(info operation.OperationInfo) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if !s.calls.Allow() || (!info.ReadOnly && !s.writes.Allow()) {
			return mcp.NewToolResultError("Rate limit exceeded. Please try again later."), nil
		}

		params := operation.Params{}
		switch args := request.Params.Arguments.(type) {
		case nil:
		case map[string]any:
			params = args
		default:
			return mcp.NewToolResultError("Invalid arguments format"), nil
		}

		logger := s.logger.With(
			slog.String("resource", info.Resource),
			slog.String("operation", info.Name))
		logger.Debug("tool call")

		result, err := s.connector.Execute(ctx, info.Resource, info.Name, params)
		if err != nil {
			logger.Warn("tool call failed", slog.String("error", err.Error()))
			return mcp.NewToolResultError(errorText(err)), nil
		}

		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
		}
		return textResponse(string(data)), nil
	}
}

// errorText renders an operation error, with its description on a second
// line when it has one.
func errorText(err error) string {
	msg := operation.MessageOf(err)
	var opErr *operation.Error
	if errors.As(err, &opErr) && opErr.Description != "" && !strings.Contains(msg, opErr.Description) {
		msg += "\n" + opErr.Description
	}
	return msg
}
