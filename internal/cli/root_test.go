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

package cli

import (
	"testing"
)

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.Use != "heyreach" {
		t.Errorf("expected use 'heyreach', got %q", cmd.Use)
	}
	if !cmd.SilenceErrors || !cmd.SilenceUsage {
		t.Error("expected errors and usage to be silenced")
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	for _, tc := range []struct{ name, shorthand string }{
		{"verbose", "v"},
		{"quiet", "q"},
		{"json", ""},
		{"config", ""},
	} {
		flag := cmd.PersistentFlags().Lookup(tc.name)
		if flag == nil {
			t.Errorf("%s flag not registered", tc.name)
			continue
		}
		if flag.Shorthand != tc.shorthand {
			t.Errorf("%s: expected shorthand %q, got %q", tc.name, tc.shorthand, flag.Shorthand)
		}
	}
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.3", "abc123", "2025-12-22")
	defer SetVersion("dev", "unknown", "unknown")

	v, c, b := GetVersion()
	if v != "1.2.3" || c != "abc123" || b != "2025-12-22" {
		t.Errorf("unexpected version info %q %q %q", v, c, b)
	}
}
