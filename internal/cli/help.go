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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tombee/heyreach/internal/commands/shared"
	"github.com/tombee/heyreach/internal/integration/heyreach"
)

const apiDocsURL = "https://documenter.getpostman.com/view/23808049/2sA2xb5F75"

// CommandHelp describes one command for machine-readable help.
type CommandHelp struct {
	Name        string     `json:"name"`
	Short       string     `json:"short"`
	Usage       string     `json:"usage"`
	Flags       []FlagHelp `json:"flags,omitempty"`
	Subcommands []string   `json:"subcommands,omitempty"`
}

// FlagHelp describes one flag.
type FlagHelp struct {
	Name     string `json:"name"`
	Usage    string `json:"usage"`
	Default  string `json:"default,omitempty"`
	Required bool   `json:"required,omitempty"`
}

// HelpResponse is the JSON form of `heyreach help`. Routes is filled for
// the root listing and for `help run`, the two places a caller needs the
// resource/operation names.
type HelpResponse struct {
	shared.JSONResponse
	Commands    []CommandHelp `json:"commands"`
	GlobalFlags []FlagHelp    `json:"global_flags"`
	Routes      []string      `json:"routes,omitempty"`
	DocsURL     string        `json:"docs_url"`
}

// NewHelpCommand creates the help command. Without --json it defers to
// cobra's help text.
func NewHelpCommand(rootCmd *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Help about any command",
		Long: `Show help for heyreach or one of its commands.

With --json the command tree, flags and the supported routes are
printed as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := rootCmd
			if len(args) > 0 {
				found, _, err := rootCmd.Find(args)
				if err != nil || found == rootCmd {
					return fmt.Errorf("command %q not found", args[0])
				}
				target = found
			}

			if !shared.GetJSON() {
				return target.Help()
			}
			return shared.EmitJSON(cmd.OutOrStdout(), describe(rootCmd, target))
		},
	}
}

func describe(rootCmd, target *cobra.Command) HelpResponse {
	resp := HelpResponse{
		JSONResponse: shared.JSONResponse{Version: "1.0", Command: "help", Success: true},
		GlobalFlags:  flagHelp(rootCmd.PersistentFlags()),
		DocsURL:      apiDocsURL,
	}

	if target == rootCmd {
		for _, c := range rootCmd.Commands() {
			if !c.Hidden && c.Name() != "help" {
				resp.Commands = append(resp.Commands, commandHelp(c))
			}
		}
	} else {
		resp.Command += " " + target.Name()
		resp.Commands = []CommandHelp{commandHelp(target)}
	}

	if target == rootCmd || target.Name() == "run" {
		for _, info := range heyreach.Operations() {
			resp.Routes = append(resp.Routes, info.Resource+" "+info.Name)
		}
	}
	return resp
}

func commandHelp(cmd *cobra.Command) CommandHelp {
	h := CommandHelp{
		Name:  cmd.Name(),
		Short: cmd.Short,
		Usage: cmd.UseLine(),
		Flags: flagHelp(cmd.LocalNonPersistentFlags()),
	}
	for _, sub := range cmd.Commands() {
		if !sub.Hidden {
			h.Subcommands = append(h.Subcommands, sub.Name())
		}
	}
	return h
}

func flagHelp(fs *pflag.FlagSet) []FlagHelp {
	var flags []FlagHelp
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" {
			return
		}
		_, required := f.Annotations[cobra.BashCompOneRequiredFlag]
		flags = append(flags, FlagHelp{
			Name:     f.Name,
			Usage:    f.Usage,
			Default:  f.DefValue,
			Required: required,
		})
	})
	return flags
}
