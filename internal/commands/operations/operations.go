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

package operations

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/heyreach/internal/commands/shared"
	"github.com/tombee/heyreach/internal/integration/heyreach"
	"github.com/tombee/heyreach/internal/operation"
)

// NewCommand creates the operations command
func NewCommand() *cobra.Command {
	var showParams bool

	cmd := &cobra.Command{
		Use:     "operations [resource]",
		Aliases: []string{"ops"},
		Short:   "List the resources and operations heyreach can run",
		Long: `List every (resource, operation) pair accepted by 'heyreach run'.

Pass a resource to show only its operations and --params to include the
parameters each operation reads.`,
		Example: `  heyreach operations
  heyreach operations lead --params
  heyreach operations --json`,
		Annotations: map[string]string{
			"group": "operations",
		},
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource := ""
			if len(args) == 1 {
				resource = args[0]
			}
			return runOperations(cmd, resource, showParams)
		},
	}

	cmd.Flags().BoolVar(&showParams, "params", false, "Show operation parameters")
	return cmd
}

// Listing is the --json form of the operations command.
type Listing struct {
	shared.JSONResponse
	Operations []operation.OperationInfo `json:"operations"`
}

func runOperations(cmd *cobra.Command, resource string, showParams bool) error {
	infos := heyreach.Operations()
	if resource != "" {
		infos = filterResource(infos, resource)
		if len(infos) == 0 {
			return operation.NewUnknownRouteError("unknown resource: %s", resource)
		}
	}

	if shared.GetJSON() {
		return shared.EmitJSON(cmd.OutOrStdout(), Listing{
			JSONResponse: shared.JSONResponse{Version: "1.0", Command: "operations", Success: true},
			Operations:   infos,
		})
	}

	printTable(cmd.OutOrStdout(), infos, showParams)
	return nil
}

func filterResource(infos []operation.OperationInfo, resource string) []operation.OperationInfo {
	var out []operation.OperationInfo
	for _, info := range infos {
		if info.Resource == resource {
			out = append(out, info)
		}
	}
	return out
}

func printTable(w io.Writer, infos []operation.OperationInfo, showParams bool) {
	width := 0
	for _, info := range infos {
		width = max(width, len(info.Name))
	}

	current := ""
	for _, info := range infos {
		if info.Resource != current {
			if current != "" {
				fmt.Fprintln(w)
			}
			current = info.Resource
			fmt.Fprintln(w, shared.Header.Render(current))
		}

		badge := shared.WriteBadge.String()
		if info.ReadOnly {
			badge = shared.ReadOnlyBadge.String()
		}
		fmt.Fprintf(w, "  %s %s %s\n", shared.Column(info.Name, width+2), shared.Column(badge, 10), info.Description)

		if showParams {
			for _, p := range info.Parameters {
				fmt.Fprintf(w, "      %s %s\n", shared.Column(p.Name, width), shared.RenderLabel(describeParam(p)))
			}
		}
	}
}

func describeParam(p operation.ParameterInfo) string {
	parts := []string{p.Type}
	if p.Required {
		parts = append(parts, "required")
	}
	if p.Default != nil {
		parts = append(parts, fmt.Sprintf("default %v", p.Default))
	}
	desc := "(" + strings.Join(parts, ", ") + ")"
	if p.Description != "" {
		desc += " " + p.Description
	}
	return desc
}
