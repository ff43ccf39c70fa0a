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

// Package run implements the run command, which executes one HeyReach
// operation over a batch of parameter bags.
package run

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/tombee/heyreach/internal/cli/format"
	"github.com/tombee/heyreach/internal/commands/completion"
	"github.com/tombee/heyreach/internal/commands/shared"
	"github.com/tombee/heyreach/internal/host"
	"github.com/tombee/heyreach/internal/jq"
	"github.com/tombee/heyreach/internal/log"
	"github.com/tombee/heyreach/internal/tracing"
)

const instrumentationName = "github.com/tombee/heyreach/internal/commands/run"

type options struct {
	params         []string
	paramsFile     string
	itemsFile      string
	continueOnFail bool
	jqExpr         string
	filterExpr     string
	timeout        time.Duration
	metricsFile    string
}

// NewCommand creates the run command
func NewCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "run <resource> <operation>",
		Short: "Execute a HeyReach operation",
		Annotations: map[string]string{
			"group": "execution",
		},
		Long: `Run executes one operation once per input item and prints the output
records as JSON.

Parameters:
  --param key=value   Set a parameter. JSON values (numbers, true/false,
                      arrays, objects) are decoded; anything else is a string.
  --params file       Base parameters from a JSON or YAML object ("-" for stdin)
  --items file        A JSON or YAML list; each entry is merged over the base
                      parameters and run as its own item

Output shaping:
  --filter expr       Keep records matching an expr boolean expression
  --jq expr           Reshape each kept record with a jq program

Run 'heyreach operations' to list resources, operations and their parameters.`,
		Example: `  heyreach run campaign getMany --param returnAll=true
  heyreach run campaign pause --param campaignId=42
  heyreach run lead addTags --items leads.yaml --param tags=vip,2025 --continue-on-fail
  heyreach run list getLists --param returnAll=true --filter 'totalItemsCount > 100' --jq '{id, name}'`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completion.CompleteRoute,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.params, "param", "p", nil, "Parameter in key=value format (repeatable)")
	cmd.Flags().StringVar(&opts.paramsFile, "params", "", "JSON or YAML file with base parameters ('-' for stdin)")
	cmd.Flags().StringVar(&opts.itemsFile, "items", "", "JSON or YAML list of per-item parameters ('-' for stdin)")
	cmd.Flags().BoolVar(&opts.continueOnFail, "continue-on-fail", false, "Emit {error} records for failed items instead of stopping")
	cmd.Flags().StringVar(&opts.jqExpr, "jq", "", "jq program applied to each output record")
	cmd.Flags().StringVar(&opts.filterExpr, "filter", "", "expr boolean expression selecting output records")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Abort the whole run after this duration (e.g. 2m)")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file when done")

	_ = cmd.RegisterFlagCompletionFunc("param", completion.CompleteParam)

	return cmd
}

func runOperation(cmd *cobra.Command, resource, op string, opts options) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	items, err := buildItems(opts.params, opts.paramsFile, opts.itemsFile, cmd.InOrStdin())
	if err != nil {
		return shared.NewInputError("invalid parameters", err)
	}
	transform, err := jq.Compile(opts.jqExpr)
	if err != nil {
		return shared.NewInputError("invalid --jq expression", err)
	}
	filter, err := host.CompileFilter(opts.filterExpr)
	if err != nil {
		return shared.NewInputError("invalid --filter expression", err)
	}

	rt, err := shared.NewRuntime(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if opts.metricsFile != "" {
		rt.Config.Metrics.Textfile = opts.metricsFile
	}
	defer func() {
		// A fresh context so an expired --timeout does not skip the flush.
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if closeErr := rt.Close(closeCtx); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if len(items) == 1 && !shared.IsNonInteractive() {
		if items[0], err = promptMissing(ctx, rt, resource, op, items[0], cmd.ErrOrStderr()); err != nil {
			return shared.NewInputError("missing parameters", err)
		}
	}

	correlationID := tracing.NewCorrelationID()
	ctx = tracing.ToContext(ctx, correlationID)
	logger := log.WithCorrelationID(rt.Logger, correlationID.String())

	executor, err := host.New(rt.Router, host.Config{
		Logger:    logger,
		Tracer:    rt.Telemetry.Tracer(instrumentationName),
		Meter:     rt.Telemetry.Meter(instrumentationName),
		Metrics:   rt.Metrics,
		Transform: transform,
		Filter:    filter,
	})
	if err != nil {
		return err
	}

	logger.Debug("running batch",
		slog.String(log.ResourceKey, resource),
		slog.String(log.OperationKey, op),
		slog.Int("items", len(items)))

	out, runErr := executor.Run(ctx, host.Batch{
		Resource:       resource,
		Operation:      op,
		Items:          items,
		ContinueOnFail: opts.continueOnFail,
	})
	if runErr != nil {
		return runErr
	}

	if err := writeOutput(cmd.OutOrStdout(), out); err != nil {
		return err
	}
	if out.Failed > 0 && !shared.GetQuiet() && !shared.GetJSON() {
		fmt.Fprintln(cmd.ErrOrStderr(), shared.RenderWarn(fmt.Sprintf("%d of %d items failed", out.Failed, len(items))))
	}
	return nil
}

// runResult is the --json envelope of a run.
type runResult struct {
	shared.JSONResponse
	Units  []host.Unit `json:"units"`
	Failed int         `json:"failed"`
}

// writeOutput prints the record JSON as an array, or the full envelope with
// item indexes under --json.
func writeOutput(w io.Writer, out *host.Output) error {
	if shared.GetJSON() {
		return shared.EmitJSON(w, runResult{
			JSONResponse: shared.JSONResponse{Version: "1.0", Command: "run", Success: true},
			Units:        out.Units,
			Failed:       out.Failed,
		})
	}

	records := make([]map[string]any, len(out.Units))
	for i, u := range out.Units {
		records[i] = u.JSON
	}
	return format.JSON(w, records, format.IsTTY(w))
}
