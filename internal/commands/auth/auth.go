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

// Package auth implements the auth command, which manages the HeyReach API
// key in the system keychain.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/heyreach/internal/commands/shared"
	"github.com/tombee/heyreach/internal/log"
	"github.com/tombee/heyreach/internal/secrets"
)

// NewCommand creates the auth command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the HeyReach API key",
		Annotations: map[string]string{
			"group": "configuration",
		},
		Long: `Manage the HeyReach API key.

The key is resolved in this order:
  1. HEYREACH_API_KEY environment variable
  2. System keychain (service "heyreach")
  3. api.api_key in the config file

'auth set' stores the key in the keychain.`,
	}

	cmd.AddCommand(newSetCommand())
	cmd.AddCommand(newStatusCommand())
	cmd.AddCommand(newDeleteCommand())
	return cmd
}

func newSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set",
		Short: "Store the API key in the keychain",
		Long: `Store the API key in the system keychain.

The key is read from stdin when it is piped, and prompted for (hidden)
otherwise:
  heyreach auth set
  echo "$KEY" | heyreach auth set`,
		Args: cobra.NoArgs,
		RunE: runSet,
	}
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the configured API key authenticates",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
}

func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Remove the API key from the keychain",
		Args:  cobra.NoArgs,
		RunE:  runDelete,
	}
}

func runSet(cmd *cobra.Command, args []string) error {
	value, err := readKey(cmd)
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}
	if value == "" {
		return shared.NewInputError("API key cannot be empty", nil)
	}

	cfg, err := shared.LoadConfig()
	if err != nil {
		return shared.NewInputError("failed to load configuration", err)
	}
	resolver := shared.NewSecrets(cfg)

	if err := resolver.Set(cmd.Context(), secrets.APIKeyName, value); err != nil {
		if errors.Is(err, secrets.ErrBackendUnavailable) {
			return fmt.Errorf("%w\n\nThe keychain is not accessible. Set HEYREACH_API_KEY instead", err)
		}
		return fmt.Errorf("failed to store API key: %w", err)
	}

	if !shared.GetQuiet() {
		cmd.Println(shared.RenderOK("API key " + log.SanitizeAPIKey(value) + " stored in keychain"))
	}
	return nil
}

func readKey(cmd *cobra.Command) (string, error) {
	if shared.IsNonInteractive() {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}

	fmt.Fprint(cmd.ErrOrStderr(), "HeyReach API key (hidden): ")
	value, err := shared.ReadSecret()
	fmt.Fprintln(cmd.ErrOrStderr())
	return strings.TrimSpace(value), err
}

// Status is the --json form of auth status.
type Status struct {
	shared.JSONResponse
	Configured bool   `json:"configured"`
	Source     string `json:"source,omitempty"`
	Key        string `json:"key,omitempty"`
	Valid      bool   `json:"valid"`
	Error      string `json:"error,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rt, err := shared.NewRuntime(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer rt.Close(context.Background())

	status := Status{JSONResponse: shared.JSONResponse{Version: "1.0", Command: "auth status"}}

	key, source, lookupErr := rt.Secrets.Lookup(ctx, secrets.APIKeyName)
	var checkErr error
	switch {
	case errors.Is(lookupErr, secrets.ErrSecretNotFound):
		status.Error = "no API key configured"
	case lookupErr != nil:
		status.Error = lookupErr.Error()
	default:
		status.Configured = true
		status.Source = source
		status.Key = log.SanitizeAPIKey(key)
		checkErr = rt.Client.CheckAPIKey(ctx)
		status.Valid = checkErr == nil
		if checkErr != nil {
			status.Error = checkErr.Error()
		}
	}
	status.Success = status.Valid

	if shared.GetJSON() {
		if err := shared.EmitJSON(cmd.OutOrStdout(), status); err != nil {
			return err
		}
	} else {
		printStatus(cmd, status)
	}

	switch {
	case checkErr != nil:
		return checkErr
	case !status.Configured:
		return &shared.ExitError{Code: shared.ExitAuth, Message: status.Error}
	}
	return nil
}

func printStatus(cmd *cobra.Command, s Status) {
	out := cmd.OutOrStdout()
	if !s.Configured {
		fmt.Fprintln(out, shared.RenderWarn("No API key configured"))
		fmt.Fprintln(out, shared.RenderLabel("  Run 'heyreach auth set' or export HEYREACH_API_KEY"))
		return
	}
	fmt.Fprintf(out, "%s %s\n", shared.RenderLabel("Source:"), s.Source)
	fmt.Fprintf(out, "%s %s\n", shared.RenderLabel("Key:   "), s.Key)
	if s.Valid {
		fmt.Fprintln(out, shared.RenderOK("API key is valid"))
	}
}

func runDelete(cmd *cobra.Command, args []string) error {
	cfg, err := shared.LoadConfig()
	if err != nil {
		return shared.NewInputError("failed to load configuration", err)
	}
	resolver := shared.NewSecrets(cfg)

	if err := resolver.Delete(cmd.Context(), secrets.APIKeyName); err != nil {
		if errors.Is(err, secrets.ErrSecretNotFound) {
			return &shared.ExitError{Code: shared.ExitNotFound, Message: "no API key stored in the keychain"}
		}
		return fmt.Errorf("failed to delete API key: %w", err)
	}

	if !shared.GetQuiet() {
		cmd.Println(shared.RenderOK("API key removed from keychain"))
	}
	return nil
}
