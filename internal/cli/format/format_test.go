package format

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func TestJSON_Plain(t *testing.T) {
	var buf bytes.Buffer
	records := []map[string]any{{"name": "Founders & Co", "id": 1}}

	if err := JSON(&buf, records, false); err != nil {
		t.Fatalf("JSON failed: %v", err)
	}

	want := "[\n  {\n    \"id\": 1,\n    \"name\": \"Founders & Co\"\n  }\n]\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestJSON_Highlighted(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, map[string]any{"status": "PAUSED"}, true); err != nil {
		t.Fatalf("JSON failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "\x1b[") {
		t.Errorf("expected ANSI escapes in %q", out)
	}
	if !strings.Contains(out, "PAUSED") {
		t.Errorf("expected value in %q", out)
	}
}

func TestJSON_Unencodable(t *testing.T) {
	if err := JSON(&bytes.Buffer{}, map[string]any{"f": func() {}}, false); err == nil {
		t.Error("expected an error for an unencodable value")
	}
}

func TestJSON_LargeOutputStaysPlain(t *testing.T) {
	var buf bytes.Buffer
	big := strings.Repeat("x", maxHighlightSize)
	if err := JSON(&buf, []string{big}, true); err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Error("large output should not be highlighted")
	}
	var decoded []string
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Errorf("plain output is not valid JSON: %v", err)
	}
}

func TestIsTTY(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")
	t.Setenv("NO_COLOR", "")

	if IsTTY(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTTY(f) {
		t.Error("a regular file is not a terminal")
	}

	t.Setenv("NO_COLOR", "1")
	if IsTTY(os.Stdout) {
		t.Error("NO_COLOR must disable terminal formatting")
	}
}
