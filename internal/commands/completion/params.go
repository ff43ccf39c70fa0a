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

package completion

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tombee/heyreach/internal/commands/shared"
	"github.com/tombee/heyreach/internal/integration/heyreach"
)

// lookupTimeout bounds the HeyReach request behind an id completion.
const lookupTimeout = 3 * time.Second

// Searcher looks up completion candidates for an id parameter.
type Searcher func(ctx context.Context, param, filter string) []heyreach.SearchResult

// CompleteParam completes --param for the route named by run's arguments:
// parameter names first, then campaignId and listId values.
func CompleteParam(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return completeParam(args, toComplete, searchHeyReach)
}

func completeParam(args []string, toComplete string, search Searcher) ([]string, cobra.ShellCompDirective) {
	return SafeCompletionWrapper(func() ([]string, cobra.ShellCompDirective) {
		info, ok := lookupRoute(args)
		if !ok {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		name, value, hasValue := strings.Cut(toComplete, "=")
		if !hasValue {
			var out []string
			for _, p := range info.Parameters {
				if strings.HasPrefix(p.Name, name) {
					out = append(out, p.Name+"=\t"+p.Type)
				}
			}
			return out, cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
		}

		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()

		var out []string
		for _, r := range search(ctx, name, "") {
			if strings.HasPrefix(r.Value, value) {
				out = append(out, name+"="+r.Value+"\t"+r.Name)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})
}

// searchHeyReach backs campaignId and listId with the search endpoints.
// Everything else has no value completion.
func searchHeyReach(ctx context.Context, param, filter string) []heyreach.SearchResult {
	if param != "campaignId" && param != "listId" {
		return nil
	}

	rt, err := shared.NewRuntime(ctx, io.Discard)
	if err != nil {
		return nil
	}
	defer rt.Close(context.Background())

	if param == "campaignId" {
		return rt.Client.SearchCampaigns(ctx, filter)
	}
	return rt.Client.SearchLists(ctx, filter)
}
