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

package search

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tombee/heyreach/internal/commands/shared"
	"github.com/tombee/heyreach/internal/integration/heyreach"
)

// NewCommand creates the search command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find campaign and list ids by name",
		Long: `Search campaigns or lead lists by display name.

Matching ignores case and looks at the first page of results only. The
value column is the id to pass as campaignId or listId.`,
		Annotations: map[string]string{
			"group": "operations",
		},
	}

	cmd.AddCommand(newSearchCommand("campaigns", "Search campaigns by name", (*heyreach.Client).SearchCampaigns))
	cmd.AddCommand(newSearchCommand("lists", "Search lead lists by name", (*heyreach.Client).SearchLists))
	return cmd
}

type searchFunc func(c *heyreach.Client, ctx context.Context, filter string) []heyreach.SearchResult

func newSearchCommand(name, short string, fn searchFunc) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [filter]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			if len(args) == 1 {
				filter = args[0]
			}
			return runSearch(cmd, name, filter, fn)
		},
	}
}

// Results is the --json form of a search.
type Results struct {
	shared.JSONResponse
	Results []heyreach.SearchResult `json:"results"`
}

func runSearch(cmd *cobra.Command, name, filter string, fn searchFunc) error {
	ctx := cmd.Context()
	rt, err := shared.NewRuntime(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer rt.Close(context.Background())

	results := fn(rt.Client, ctx, filter)

	if shared.GetJSON() {
		return shared.EmitJSON(cmd.OutOrStdout(), Results{
			JSONResponse: shared.JSONResponse{Version: "1.0", Command: "search " + name, Success: true},
			Results:      results,
		})
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		if !shared.GetQuiet() {
			fmt.Fprintln(out, shared.RenderLabel("No matches"))
		}
		return nil
	}

	width := 0
	for _, r := range results {
		width = max(width, len(r.Value))
	}
	for _, r := range results {
		fmt.Fprintf(out, "%s %s\n", shared.Column(r.Value, width+2), r.Name)
	}
	return nil
}
