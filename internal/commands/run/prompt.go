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

package run

import (
	"context"
	"io"

	"github.com/tombee/heyreach/internal/cli/prompt"
	"github.com/tombee/heyreach/internal/commands/shared"
	"github.com/tombee/heyreach/internal/integration/heyreach"
	"github.com/tombee/heyreach/internal/operation"
)

// promptMissing asks on the terminal for required parameters the item
// leaves out. Unknown routes pass through for the router to reject.
func promptMissing(ctx context.Context, rt *shared.Runtime, resource, op string, item operation.Params, stderr io.Writer) (operation.Params, error) {
	info, ok := findOperation(resource, op)
	if !ok {
		return item, nil
	}
	collector := prompt.NewCollector(prompt.NewSurveyPrompter(true), searchOptions(rt.Client), stderr)
	return collector.Fill(ctx, info, item)
}

func findOperation(resource, op string) (operation.OperationInfo, bool) {
	for _, info := range heyreach.Operations() {
		if info.Resource == resource && info.Name == op {
			return info, true
		}
	}
	return operation.OperationInfo{}, false
}

// searchOptions offers campaigns for campaignId and lists for listId.
func searchOptions(client *heyreach.Client) prompt.OptionSource {
	return func(ctx context.Context, param string) []prompt.Option {
		var results []heyreach.SearchResult
		switch param {
		case "campaignId":
			results = client.SearchCampaigns(ctx, "")
		case "listId":
			results = client.SearchLists(ctx, "")
		default:
			return nil
		}

		opts := make([]prompt.Option, len(results))
		for i, r := range results {
			opts[i] = prompt.Option{Label: r.Name, Value: r.Value}
		}
		return opts
	}
}
