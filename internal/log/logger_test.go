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

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got %q", cfg.Level)
	}
	if cfg.Format != FormatText {
		t.Errorf("expected default format 'text', got %q", cfg.Format)
	}
	if cfg.Output != os.Stderr {
		t.Errorf("expected default output to be os.Stderr")
	}
	if cfg.AddSource {
		t.Errorf("expected default AddSource to be false")
	}
}

func TestFromEnv(t *testing.T) {
	tests := []struct {
		name       string
		envVars    map[string]string
		wantLevel  string
		wantFormat Format
		wantSource bool
	}{
		{
			name:       "defaults when no env vars",
			wantLevel:  "info",
			wantFormat: FormatText,
		},
		{
			name:       "LOG_LEVEL is lower-cased",
			envVars:    map[string]string{"LOG_LEVEL": "DEBUG"},
			wantLevel:  "debug",
			wantFormat: FormatText,
		},
		{
			name:       "HEYREACH_LOG_LEVEL wins over LOG_LEVEL",
			envVars:    map[string]string{"LOG_LEVEL": "error", "HEYREACH_LOG_LEVEL": "warn"},
			wantLevel:  "warn",
			wantFormat: FormatText,
		},
		{
			name:       "HEYREACH_DEBUG enables debug and source",
			envVars:    map[string]string{"HEYREACH_DEBUG": "1", "HEYREACH_LOG_LEVEL": "error"},
			wantLevel:  "debug",
			wantFormat: FormatText,
			wantSource: true,
		},
		{
			name:       "json format",
			envVars:    map[string]string{"LOG_FORMAT": "JSON"},
			wantLevel:  "info",
			wantFormat: FormatJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"HEYREACH_DEBUG", "HEYREACH_LOG_LEVEL", "LOG_LEVEL", "LOG_FORMAT", "LOG_SOURCE"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := FromEnv()
			if cfg.Level != tt.wantLevel {
				t.Errorf("level = %q, want %q", cfg.Level, tt.wantLevel)
			}
			if cfg.Format != tt.wantFormat {
				t.Errorf("format = %q, want %q", cfg.Format, tt.wantFormat)
			}
			if cfg.AddSource != tt.wantSource {
				t.Errorf("add source = %v, want %v", cfg.AddSource, tt.wantSource)
			}
		})
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "info", Format: FormatJSON, Output: &buf})

	WithRoute(logger, "campaign", "get").Info("dispatch")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry[ResourceKey] != "campaign" || entry[OperationKey] != "get" {
		t.Errorf("unexpected route fields: %v", entry)
	}
}

func TestTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "debug", Format: FormatText, Output: &buf})

	Trace(context.Background(), logger, "body", slog.String("payload", "secret"))
	if buf.Len() != 0 {
		t.Errorf("trace output written at debug level: %q", buf.String())
	}

	logger = New(&Config{Level: "trace", Format: FormatText, Output: &buf})
	Trace(context.Background(), logger, "body")
	if !strings.Contains(buf.String(), "body") {
		t.Errorf("expected trace output, got %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	logger := OrDiscard(nil)
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("discard logger should not be enabled")
	}
}

func TestSanitizeAPIKey(t *testing.T) {
	tests := map[string]string{
		"":             "[REDACTED]",
		"abcd":         "[REDACTED]",
		"hr_live_1234": "...1234",
	}
	for in, want := range tests {
		if got := SanitizeAPIKey(in); got != want {
			t.Errorf("SanitizeAPIKey(%q) = %q, want %q", in, got, want)
		}
	}
}
