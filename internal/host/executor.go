package host

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/tombee/heyreach/internal/jq"
	"github.com/tombee/heyreach/internal/log"
	"github.com/tombee/heyreach/internal/operation"
	"github.com/tombee/heyreach/internal/tracing"
)

const instrumentationName = "github.com/tombee/heyreach/internal/host"

// Batch is one invocation: a route and the parameters of each input item.
type Batch struct {
	Resource       string
	Operation      string
	Items          []operation.Params
	ContinueOnFail bool
}

// Unit is one output record and the index of the item that produced it.
type Unit struct {
	Item int            `json:"item"`
	JSON map[string]any `json:"json"`
}

// Output is the result of a batch.
type Output struct {
	Units  []Unit `json:"units"`
	Failed int    `json:"failed"`
}

// ItemError reports the item that aborted a batch.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// Config holds the optional collaborators of an Executor.
type Config struct {
	Logger  *slog.Logger
	Tracer  trace.Tracer
	Meter   metric.Meter
	Metrics *operation.Metrics

	// Transform reshapes every successful unit.
	Transform *jq.Program

	// Filter drops units it does not match. It runs before Transform.
	Filter *Filter
}

// Executor runs batches against one connector.
type Executor struct {
	connector operation.Connector
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   *operation.Metrics
	items     metric.Int64Counter
	transform *jq.Program
	filter    *Filter
}

// New creates an Executor for connector.
func New(connector operation.Connector, cfg Config) (*Executor, error) {
	if connector == nil {
		return nil, fmt.Errorf("host: connector is required")
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(instrumentationName)
	}
	meter := cfg.Meter
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}
	items, err := meter.Int64Counter("heyreach.host.items",
		metric.WithDescription("Input items processed by route and outcome"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("host: creating item counter: %w", err)
	}

	return &Executor{
		connector: connector,
		logger:    log.WithComponent(log.OrDiscard(cfg.Logger), "host"),
		tracer:    tracer,
		metrics:   cfg.Metrics,
		items:     items,
		transform: cfg.Transform,
		filter:    cfg.Filter,
	}, nil
}

// Run executes the batch item by item. Without ContinueOnFail the first
// failure stops the batch and is returned as an *ItemError together with
// the units produced so far.
func (e *Executor) Run(ctx context.Context, b Batch) (*Output, error) {
	out := &Output{Units: []Unit{}}
	logger := log.WithRoute(e.logger, b.Resource, b.Operation)

	for i, params := range b.Items {
		if err := ctx.Err(); err != nil {
			return out, &ItemError{Index: i, Err: operation.NewUnknownError(err)}
		}

		units, err := e.runItem(ctx, b, i, params)
		if err != nil {
			if !b.ContinueOnFail {
				logger.Debug("item failed, aborting batch", log.ItemKey, i, "error", err.Error())
				return out, &ItemError{Index: i, Err: err}
			}
			logger.Warn("item failed", log.ItemKey, i, "error", operation.MessageOf(err))
			out.Failed++
			out.Units = append(out.Units, Unit{
				Item: i,
				JSON: map[string]any{"error": operation.MessageOf(err)},
			})
			continue
		}
		out.Units = append(out.Units, units...)
	}

	logger.Debug("batch completed", "items", len(b.Items), "units", len(out.Units), "failed", out.Failed)
	return out, nil
}

func (e *Executor) runItem(ctx context.Context, b Batch, index int, params operation.Params) ([]Unit, error) {
	ctx, span := e.tracer.Start(ctx, "heyreach.item",
		trace.WithAttributes(
			attribute.String("heyreach.resource", b.Resource),
			attribute.String("heyreach.operation", b.Operation),
			attribute.Int("heyreach.item", index),
		),
		trace.WithAttributes(tracing.Attributes(ctx)...),
	)
	defer span.End()

	result, err := e.connector.Execute(ctx, b.Resource, b.Operation, params)
	e.record(ctx, b, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, operation.MessageOf(err))
		return nil, err
	}

	units, err := e.shape(ctx, index, result)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("heyreach.units", len(units)))
	return units, nil
}

func (e *Executor) record(ctx context.Context, b Batch, err error) {
	e.metrics.RecordItem(b.Resource, b.Operation, err)

	outcome := "success"
	if err != nil {
		outcome = string(operation.TypeOf(err))
		if outcome == "" {
			outcome = "error"
		}
	}
	e.items.Add(ctx, 1, metric.WithAttributes(
		attribute.String("resource", b.Resource),
		attribute.String("operation", b.Operation),
		attribute.String("outcome", outcome),
	))
}

// shape turns a result into filtered, transformed units.
func (e *Executor) shape(ctx context.Context, index int, result any) ([]Unit, error) {
	var units []Unit
	for _, record := range operation.Records(result) {
		obj, err := normalize(record)
		if err != nil {
			return nil, err
		}

		keep, err := e.filter.Match(obj)
		if err != nil {
			return nil, err
		}
		if !keep {
			continue
		}

		if e.transform == nil {
			units = append(units, Unit{Item: index, JSON: obj})
			continue
		}
		transformed, err := e.transform.Apply(ctx, obj)
		if err != nil {
			return nil, fmt.Errorf("jq %q: %w", e.transform, err)
		}
		if transformed == nil {
			continue
		}
		for _, t := range operation.Records(transformed) {
			units = append(units, Unit{Item: index, JSON: asObject(t)})
		}
	}
	return units, nil
}

// normalize converts a handler result to plain JSON values so typed structs
// and decoded maps look the same to filters, jq and output.
func normalize(record any) (map[string]any, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decoding result: %w", err)
	}
	return asObject(v), nil
}

// asObject wraps non-object values as {"value": v}.
func asObject(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{"value": v}
}
