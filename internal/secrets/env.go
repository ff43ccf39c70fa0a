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

package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"
)

const (
	// EnvBackendPriority lets the environment override stored keys.
	EnvBackendPriority = 100

	envSecretPrefix = "HEYREACH_SECRET_"
	envAPIKey       = "HEYREACH_API_KEY"
)

// EnvBackend reads secrets from environment variables. The API key is read
// from HEYREACH_API_KEY; any other key from HEYREACH_SECRET_<KEY>.
type EnvBackend struct{}

// NewEnvBackend creates a new environment variable backend.
func NewEnvBackend() *EnvBackend {
	return &EnvBackend{}
}

func (e *EnvBackend) Name() string { return "env" }

// Get retrieves a secret from the environment.
func (e *EnvBackend) Get(ctx context.Context, key string) (string, error) {
	if value := strings.TrimSpace(os.Getenv(e.variable(key))); value != "" {
		return value, nil
	}
	if key == APIKeyName {
		if value := strings.TrimSpace(os.Getenv(envSecretPrefix + "API_KEY")); value != "" {
			return value, nil
		}
	}
	return "", fmt.Errorf("%w: %s not set", ErrSecretNotFound, e.variable(key))
}

func (e *EnvBackend) Set(ctx context.Context, key string, value string) error {
	return ErrReadOnlyBackend
}

func (e *EnvBackend) Delete(ctx context.Context, key string) error {
	return ErrReadOnlyBackend
}

func (e *EnvBackend) Available() bool { return true }

func (e *EnvBackend) Priority() int { return EnvBackendPriority }

func (e *EnvBackend) ReadOnly() bool { return true }

// variable maps a key such as "api_key" or "webhook.token" to its variable name.
func (e *EnvBackend) variable(key string) string {
	if key == APIKeyName {
		return envAPIKey
	}
	normalized := strings.NewReplacer(".", "_", "-", "_", "/", "_").Replace(key)
	return envSecretPrefix + strings.ToUpper(normalized)
}
