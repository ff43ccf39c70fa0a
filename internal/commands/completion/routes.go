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
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/heyreach/internal/integration/heyreach"
	"github.com/tombee/heyreach/internal/operation"
)

// CompleteRoute completes the <resource> <operation> arguments of run.
func CompleteRoute(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return SafeCompletionWrapper(func() ([]string, cobra.ShellCompDirective) {
		switch len(args) {
		case 0:
			return resources(toComplete), cobra.ShellCompDirectiveNoFileComp
		case 1:
			var out []string
			for _, info := range heyreach.Operations() {
				if info.Resource == args[0] && strings.HasPrefix(info.Name, toComplete) {
					out = append(out, info.Name+"\t"+info.Description)
				}
			}
			return out, cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	})
}

func resources(prefix string) []string {
	counts := map[string]int{}
	var order []string
	for _, info := range heyreach.Operations() {
		if counts[info.Resource] == 0 {
			order = append(order, info.Resource)
		}
		counts[info.Resource]++
	}

	var out []string
	for _, r := range order {
		if strings.HasPrefix(r, prefix) {
			out = append(out, fmt.Sprintf("%s\t%d operations", r, counts[r]))
		}
	}
	return out
}

// lookupRoute finds the operation named by run's positional arguments.
func lookupRoute(args []string) (operation.OperationInfo, bool) {
	if len(args) < 2 {
		return operation.OperationInfo{}, false
	}
	for _, info := range heyreach.Operations() {
		if info.Resource == args[0] && info.Name == args[1] {
			return info, true
		}
	}
	return operation.OperationInfo{}, false
}
