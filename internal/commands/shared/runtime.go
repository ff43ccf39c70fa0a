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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tombee/heyreach/internal/config"
	"github.com/tombee/heyreach/internal/integration/heyreach"
	"github.com/tombee/heyreach/internal/log"
	"github.com/tombee/heyreach/internal/operation"
	"github.com/tombee/heyreach/internal/secrets"
	"github.com/tombee/heyreach/internal/tracing"
)

const instrumentationName = "github.com/tombee/heyreach"

// Runtime holds what one command invocation needs to talk to HeyReach.
type Runtime struct {
	Config    *config.Config
	Logger    *slog.Logger
	Secrets   *secrets.Resolver
	Registry  *prometheus.Registry
	Metrics   *operation.Metrics
	Telemetry *tracing.Provider
	Client    *heyreach.Client
	Router    *heyreach.Router
}

// LoadConfig loads --config when given and the default location otherwise.
func LoadConfig() (*config.Config, error) {
	if path := GetConfigPath(); path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

// NewLogger builds the command logger. --verbose lowers the level to debug
// and --quiet raises it to error.
func NewLogger(cfg log.Config, stderr io.Writer) *slog.Logger {
	cfg.Output = stderr
	switch {
	case GetVerbose() && log.ParseLevel(cfg.Level) > slog.LevelDebug:
		cfg.Level = "debug"
	case GetQuiet():
		cfg.Level = "error"
	}
	return log.New(&cfg)
}

// NewSecrets builds the resolver: environment, then keychain, then the
// api_key from the config file.
func NewSecrets(cfg *config.Config) *secrets.Resolver {
	return secrets.NewResolver(
		secrets.NewEnvBackend(),
		secrets.NewKeychainBackend(),
		secrets.NewValueBackend("config", map[string]string{secrets.APIKeyName: cfg.API.APIKey}),
	)
}

// NewRuntime loads configuration and wires the client, router and telemetry.
// Callers must Close the runtime.
func NewRuntime(ctx context.Context, stderr io.Writer) (*Runtime, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, NewInputError("failed to load configuration", err)
	}

	logger := NewLogger(cfg.Log, stderr)
	reg := prometheus.NewRegistry()

	v, _, _ := GetVersion()
	cfg.Tracing.ServiceVersion = v
	telemetry, err := tracing.Setup(ctx, cfg.Tracing, reg, tracing.WithConsoleWriter(stderr))
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}

	resolver := NewSecrets(cfg)
	metrics := operation.NewMetrics(reg)

	clientCfg := cfg.Client()
	clientCfg.Credentials = secrets.NewKeyCache(resolver)
	clientCfg.Logger = logger
	clientCfg.Metrics = metrics
	clientCfg.Tracer = telemetry.Tracer(instrumentationName)

	client, err := heyreach.NewClient(clientCfg)
	if err != nil {
		_ = telemetry.Shutdown(ctx)
		return nil, NewInputError("invalid client configuration", err)
	}

	return &Runtime{
		Config:    cfg,
		Logger:    logger,
		Secrets:   resolver,
		Registry:  reg,
		Metrics:   metrics,
		Telemetry: telemetry,
		Client:    client,
		Router:    heyreach.NewRouter(client, logger),
	}, nil
}

// WriteMetrics writes the registry in the Prometheus text format to path.
func (r *Runtime) WriteMetrics(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.Registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

// Close writes the configured metrics textfile and flushes telemetry. The
// textfile goes first: the otel meters stop reporting once shut down.
func (r *Runtime) Close(ctx context.Context) error {
	metricsErr := r.WriteMetrics(r.Config.Metrics.Textfile)
	return errors.Join(metricsErr, r.Telemetry.Shutdown(ctx))
}
