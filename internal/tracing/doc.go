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

/*
Package tracing wires OpenTelemetry and correlation IDs for heyreach.

# Overview

Setup builds a Provider from Config:

  - a tracer provider exporting to the console, OTLP over HTTP or OTLP over
    gRPC (or a no-op tracer when tracing is disabled)
  - a meter provider whose instruments are bridged to a Prometheus registry

The request client opens a "heyreach.request" span per upstream call and the
host opens a "heyreach.item" span per input item. Both carry the correlation
ID stored in the context by ToContext.

# Usage

	provider, err := tracing.Setup(ctx, cfg, registry)
	if err != nil {
	    return err
	}
	defer provider.Shutdown(context.Background())

	ctx = tracing.ToContext(ctx, tracing.NewCorrelationID())
	tracer := provider.Tracer("heyreach")
*/
package tracing
