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
	"encoding/json"
	"errors"
	"io"

	"github.com/tombee/heyreach/internal/host"
	"github.com/tombee/heyreach/internal/operation"
)

// JSONResponse is the base envelope for all JSON output
type JSONResponse struct {
	Version string `json:"@version"`
	Command string `json:"command,omitempty"`
	Success bool   `json:"success"`
}

// JSONError is a structured error in JSON output.
type JSONError struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
	StatusCode  int    `json:"status_code,omitempty"`
	Suggestion  string `json:"suggestion,omitempty"`
	Item        *int   `json:"item,omitempty"`
}

// EmitJSON writes v as indented JSON.
func EmitJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// EmitJSONError writes err as a failed JSON envelope.
func EmitJSONError(w io.Writer, err error) error {
	type errorResponse struct {
		JSONResponse
		Errors []JSONError `json:"errors"`
	}

	return EmitJSON(w, errorResponse{
		JSONResponse: JSONResponse{Version: "1.0"},
		Errors:       []JSONError{ToJSONError(err)},
	})
}

// ToJSONError classifies err for JSON output.
func ToJSONError(err error) JSONError {
	out := JSONError{Code: "error", Message: err.Error()}

	var opErr *operation.Error
	if errors.As(err, &opErr) {
		out.Code = string(opErr.Type)
		out.Message = opErr.UserMessage()
		out.Description = opErr.Description
		out.StatusCode = opErr.StatusCode
		if hint := opErr.Suggestion(); hint != opErr.Description {
			out.Suggestion = hint
		}
	}

	var exitErr *ExitError
	if opErr == nil && errors.As(err, &exitErr) && exitErr.Code == ExitInvalidInput {
		out.Code = string(operation.ErrorTypeValidation)
	}

	var itemErr *host.ItemError
	if errors.As(err, &itemErr) {
		idx := itemErr.Index
		out.Item = &idx
	}
	return out
}
