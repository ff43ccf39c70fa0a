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

package shared

import (
	"os"

	"golang.org/x/term"
)

// IsNonInteractive reports whether prompting is off the table:
// HEYREACH_NON_INTERACTIVE=true, a CI environment, or a stdin that is not a
// terminal.
func IsNonInteractive() bool {
	if os.Getenv("HEYREACH_NON_INTERACTIVE") == "true" {
		return true
	}
	if isCIEnvironment() {
		return true
	}
	return !term.IsTerminal(int(os.Stdin.Fd()))
}

func isCIEnvironment() bool {
	for _, envVar := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "CIRCLECI"} {
		if value := os.Getenv(envVar); value == "true" || value == "1" {
			return true
		}
	}
	return os.Getenv("JENKINS_HOME") != ""
}

// ReadSecret reads a line from the terminal without echo.
func ReadSecret() (string, error) {
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
