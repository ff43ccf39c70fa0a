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

// Package mcp exposes every HeyReach operation as a Model Context Protocol
// tool served over stdio.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/time/rate"

	"github.com/tombee/heyreach/internal/log"
	"github.com/tombee/heyreach/internal/operation"
)

// Server wraps the MCP server and the connector its tools dispatch to.
type Server struct {
	mcpServer *server.MCPServer
	connector operation.Connector
	name      string
	version   string
	logger    *slog.Logger

	calls  *rate.Limiter
	writes *rate.Limiter

	tools    []mcp.Tool
	handlers map[string]server.ToolHandlerFunc
}

// ServerConfig configures the MCP server
type ServerConfig struct {
	// Name is the server name (default: "heyreach")
	Name string

	// Version is the heyreach version
	Version string

	// Logger must not write to stdout, which carries the protocol.
	Logger *slog.Logger

	// CallsPerMinute caps tool calls (default 100)
	CallsPerMinute int

	// WritesPerMinute caps calls to mutating operations (default 30)
	WritesPerMinute int
}

// NewServer registers one tool per connector operation.
func NewServer(connector operation.Connector, config ServerConfig) (*Server, error) {
	if connector == nil {
		return nil, fmt.Errorf("mcp: connector is required")
	}
	if config.Name == "" {
		config.Name = "heyreach"
	}
	if config.Version == "" {
		config.Version = "dev"
	}
	if config.CallsPerMinute <= 0 {
		config.CallsPerMinute = 100
	}
	if config.WritesPerMinute <= 0 {
		config.WritesPerMinute = 30
	}

	s := &Server{
		mcpServer: server.NewMCPServer(config.Name, config.Version, server.WithToolCapabilities(false)),
		connector: connector,
		name:      config.Name,
		version:   config.Version,
		logger:    log.WithComponent(log.OrDiscard(config.Logger), "mcp"),
		calls:     perMinute(config.CallsPerMinute),
		writes:    perMinute(config.WritesPerMinute),
		handlers:  make(map[string]server.ToolHandlerFunc),
	}

	for _, info := range connector.Operations() {
		s.addTool(info)
	}
	return s, nil
}

func perMinute(n int) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(float64(n)/60), n)
}

// Tools returns the registered tool definitions in registration order.
func (s *Server) Tools() []mcp.Tool {
	return s.tools
}

// Run serves the protocol on stdio until the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server",
		slog.String("version", s.version),
		slog.Int("tools", len(s.tools)))

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}

func textResponse(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
	}
}
