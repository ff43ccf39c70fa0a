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
	"fmt"
	"time"
)

// Exporter names accepted in Config.Exporter.
const (
	ExporterConsole  = "console"
	ExporterOTLPHTTP = "otlp-http"
	ExporterOTLPGRPC = "otlp-grpc"
)

// Config holds tracing configuration.
type Config struct {
	// Enabled controls whether spans are exported.
	Enabled bool `yaml:"enabled"`

	// Exporter selects the span exporter: "console", "otlp-http" or "otlp-grpc".
	Exporter string `yaml:"exporter"`

	// Endpoint is the OTLP receiver (e.g. "localhost:4317"). Unused by the
	// console exporter.
	Endpoint string `yaml:"endpoint,omitempty"`

	// Insecure disables TLS for OTLP exporters (for development only).
	Insecure bool `yaml:"insecure,omitempty"`

	// Headers are sent with every OTLP export request.
	Headers map[string]string `yaml:"headers,omitempty"`

	// ServiceName identifies this process in traces.
	ServiceName string `yaml:"service_name,omitempty"`

	// ServiceVersion is the application version.
	ServiceVersion string `yaml:"-"`

	// BatchInterval is how often spans are flushed (default: 5s).
	BatchInterval time.Duration `yaml:"batch_interval,omitempty"`
}

// DefaultConfig returns configuration with tracing disabled.
func DefaultConfig() Config {
	return Config{
		Enabled:        false,
		Exporter:       ExporterConsole,
		ServiceName:    "heyreach",
		ServiceVersion: "unknown",
		BatchInterval:  5 * time.Second,
	}
}

// Validate checks the exporter settings of an enabled configuration.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch c.Exporter {
	case ExporterConsole:
		return nil
	case ExporterOTLPHTTP, ExporterOTLPGRPC:
		if c.Endpoint == "" {
			return fmt.Errorf("tracing exporter %q requires an endpoint", c.Exporter)
		}
		return nil
	default:
		return fmt.Errorf("unknown tracing exporter %q (want console, otlp-http or otlp-grpc)", c.Exporter)
	}
}
