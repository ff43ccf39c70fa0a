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

package tracing

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Provider owns the tracer and meter providers of one process.
type Provider struct {
	tracerProvider trace.TracerProvider
	sdkTracer      *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

type setupOptions struct {
	consoleWriter io.Writer
	processors    []sdktrace.SpanProcessor
	setGlobal     bool
}

// Option configures Setup.
type Option func(*setupOptions)

// WithConsoleWriter sends console exporter output to w instead of stderr.
func WithConsoleWriter(w io.Writer) Option {
	return func(o *setupOptions) { o.consoleWriter = w }
}

// WithSpanProcessor registers an extra span processor. Spans are recorded
// even when exporting is disabled.
func WithSpanProcessor(sp sdktrace.SpanProcessor) Option {
	return func(o *setupOptions) { o.processors = append(o.processors, sp) }
}

// WithGlobal installs the tracer provider as the otel global.
func WithGlobal() Option {
	return func(o *setupOptions) { o.setGlobal = true }
}

// Setup creates the providers described by cfg. Metric instruments created
// from Meter are exported through reg (a fresh registry when nil).
func Setup(ctx context.Context, cfg Config, reg prometheus.Registerer, opts ...Option) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := &setupOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes("",
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	promExporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	p := &Provider{
		meterProvider: sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(promExporter),
		),
	}

	tpOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if cfg.Enabled {
		exporter, err := newSpanExporter(ctx, cfg, o.consoleWriter)
		if err != nil {
			return nil, err
		}
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(cfg.BatchInterval)))
	}
	for _, sp := range o.processors {
		tpOpts = append(tpOpts, sdktrace.WithSpanProcessor(sp))
	}

	if cfg.Enabled || len(o.processors) > 0 {
		p.sdkTracer = sdktrace.NewTracerProvider(tpOpts...)
		p.tracerProvider = p.sdkTracer
	} else {
		p.tracerProvider = noop.NewTracerProvider()
	}
	if o.setGlobal {
		otel.SetTracerProvider(p.tracerProvider)
	}
	return p, nil
}

// Tracer returns a tracer for the given instrumentation scope.
func (p *Provider) Tracer(name string) trace.Tracer {
	return p.tracerProvider.Tracer(name)
}

// Meter returns a meter for the given instrumentation scope.
func (p *Provider) Meter(name string) metric.Meter {
	return p.meterProvider.Meter(name)
}

// Shutdown flushes pending spans and releases exporters.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.sdkTracer != nil {
		errs = append(errs, p.sdkTracer.Shutdown(ctx))
	}
	errs = append(errs, p.meterProvider.Shutdown(ctx))
	return errors.Join(errs...)
}
