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

/*
Package cli provides the root command of the heyreach CLI.

It owns the global flags, version information and error handling. The
commands themselves live in the internal/commands subpackages; the format
and prompt subpackages serve them.

# Command Tree

	heyreach
	├── run           Run one operation over one or more items
	├── operations    List resources and operations
	├── search        Find campaign and list ids by name
	├── auth          Store and check the API key
	├── mcp           Serve operations as MCP tools over stdio
	├── completion    Generate shell completion scripts
	├── version       Show version
	└── help          Show help

# Global Flags

	--verbose, -v    Debug logging
	--quiet, -q      Errors only
	--json           Output in JSON format
	--config         Path to config file

# Exit Codes

  - 0: Success
  - 1: General error
  - 2: Invalid input or unknown route
  - 3: Missing or rejected credentials
  - 4: Resource not found
  - 5: Rate limited
  - 6: Upstream failure

From main.go:

	cli.SetVersion(version, commit, date)
	rootCmd := cli.NewRootCommand()
	// ... add commands ...
	if err := rootCmd.Execute(); err != nil {
	    cli.HandleExitError(err)
	}
*/
package cli
