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

// Package mcpserver implements the mcp command.
package mcpserver

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tombee/heyreach/internal/commands/shared"
	"github.com/tombee/heyreach/internal/mcp"
)

// NewCommand creates the mcp command
func NewCommand() *cobra.Command {
	var callsPerMinute, writesPerMinute int

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve HeyReach operations over MCP (stdio)",
		Annotations: map[string]string{
			"group": "execution",
		},
		Long: `Start a Model Context Protocol server on stdin/stdout.

Every operation listed by 'heyreach operations' becomes a tool named
heyreach_<resource>_<operation>. Tool arguments are the operation's
parameters; results are returned as JSON text and failures as tool errors.

Configuration example for an MCP client:
  {
    "mcpServers": {
      "heyreach": {
        "command": "heyreach",
        "args": ["mcp"]
      }
    }
  }

Logs go to stderr; stdout carries the protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd, callsPerMinute, writesPerMinute)
		},
	}

	cmd.Flags().IntVar(&callsPerMinute, "calls-per-minute", 100, "Maximum tool calls per minute")
	cmd.Flags().IntVar(&writesPerMinute, "writes-per-minute", 30, "Maximum calls to mutating operations per minute")

	return cmd
}

func runServer(cmd *cobra.Command, callsPerMinute, writesPerMinute int) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := shared.NewRuntime(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = rt.Close(closeCtx)
	}()

	v, _, _ := shared.GetVersion()
	srv, err := mcp.NewServer(rt.Router, mcp.ServerConfig{
		Version:         v,
		Logger:          rt.Logger,
		CallsPerMinute:  callsPerMinute,
		WritesPerMinute: writesPerMinute,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	return srv.Run(ctx)
}
