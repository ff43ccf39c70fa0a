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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tombee/heyreach/internal/operation"
)

// Exit codes
const (
	ExitSuccess        = 0
	ExitFailed         = 1
	ExitInvalidInput   = 2 // validation_error, unknown_route, bad flags
	ExitAuth           = 3 // auth_config, auth_error, forbidden
	ExitNotFound       = 4
	ExitRateLimited    = 5
	ExitUpstreamFailed = 6 // bad_request, server_error, upstream_error, unknown
)

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewInputError reports bad command-line input.
func NewInputError(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitInvalidInput, Message: msg, Cause: cause}
}

// ExitCodeFor maps an error onto the process exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var opErr *operation.Error
	if !errors.As(err, &opErr) {
		return ExitFailed
	}

	switch opErr.Type {
	case operation.ErrorTypeValidation, operation.ErrorTypeUnknownRoute:
		return ExitInvalidInput
	case operation.ErrorTypeAuthConfig, operation.ErrorTypeAuth, operation.ErrorTypeForbidden:
		return ExitAuth
	case operation.ErrorTypeNotFound:
		return ExitNotFound
	case operation.ErrorTypeRateLimit:
		return ExitRateLimited
	default:
		return ExitUpstreamFailed
	}
}

// userVisible is implemented by errors that carry a remediation hint.
type userVisible interface {
	IsUserVisible() bool
	Suggestion() string
}

// ReportError writes err and any suggestion in its chain to w.
func ReportError(w io.Writer, err error) {
	var opErr *operation.Error
	if errors.As(err, &opErr) {
		fmt.Fprintln(w, RenderError(err.Error()))
		if opErr.Description != "" {
			fmt.Fprintln(w, "  "+Muted.Render(opErr.Description))
		}
	} else {
		fmt.Fprintln(w, RenderError(err.Error()))
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		if uv, ok := e.(userVisible); ok {
			hint := uv.Suggestion()
			if uv.IsUserVisible() && hint != "" && (opErr == nil || hint != opErr.Description) {
				fmt.Fprintf(w, "\nSuggestion: %s\n", hint)
			}
			return
		}
	}
}

// HandleExitError reports err on stderr and exits with its code.
func HandleExitError(err error) {
	if err == nil {
		return
	}
	if GetJSON() {
		_ = EmitJSONError(os.Stdout, err)
	} else {
		ReportError(os.Stderr, err)
	}
	os.Exit(ExitCodeFor(err))
}
