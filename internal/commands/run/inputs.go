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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tombee/heyreach/internal/operation"
)

// parseParam splits a key=value argument. The value is decoded as JSON when
// it parses (numbers, booleans, arrays, objects, quoted strings) and kept as
// a plain string otherwise.
func parseParam(arg string) (string, any, error) {
	key, raw, ok := strings.Cut(arg, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", nil, fmt.Errorf("invalid parameter %q (expected key=value)", arg)
	}

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
		return key, decoded, nil
	}
	return key, raw, nil
}

// loadDocument reads a JSON or YAML document from path, or from stdin when
// path is "-". The result uses JSON types (float64 numbers, map[string]any).
func loadDocument(path string, stdin io.Reader) (any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	// Round-trip through JSON so YAML ints and maps look like decoded JSON.
	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	var out any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return out, nil
}

// buildItems assembles the batch. --params supplies the base bag, --param
// entries override it, and every entry of --items is layered on top to
// produce one item each.
func buildItems(paramArgs []string, paramsFile, itemsFile string, stdin io.Reader) ([]operation.Params, error) {
	if paramsFile == "-" && itemsFile == "-" {
		return nil, fmt.Errorf("--params and --items cannot both read stdin")
	}

	base := operation.Params{}
	if paramsFile != "" {
		doc, err := loadDocument(paramsFile, stdin)
		if err != nil {
			return nil, err
		}
		obj, ok := doc.(map[string]any)
		if !ok && doc != nil {
			return nil, fmt.Errorf("%s must contain an object", paramsFile)
		}
		for k, v := range obj {
			base[k] = v
		}
	}

	for _, arg := range paramArgs {
		key, value, err := parseParam(arg)
		if err != nil {
			return nil, err
		}
		base[key] = value
	}

	if itemsFile == "" {
		return []operation.Params{base}, nil
	}

	doc, err := loadDocument(itemsFile, stdin)
	if err != nil {
		return nil, err
	}

	var entries []any
	switch v := doc.(type) {
	case []any:
		entries = v
	case map[string]any:
		entries = []any{v}
	default:
		return nil, fmt.Errorf("%s must contain a list of objects", itemsFile)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s contains no items", itemsFile)
	}

	items := make([]operation.Params, 0, len(entries))
	for i, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: item %d is not an object", itemsFile, i)
		}
		item := base.Clone()
		for k, v := range obj {
			item[k] = v
		}
		items = append(items, item)
	}
	return items, nil
}
