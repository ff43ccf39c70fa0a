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
	"strings"
)

// ValueBackendPriority ranks fixed values below the keychain.
const ValueBackendPriority = 25

// ValueBackend serves fixed values, such as an API key read from the config
// file. Empty values count as absent.
type ValueBackend struct {
	name   string
	values map[string]string
}

// NewValueBackend creates a read-only backend over values.
func NewValueBackend(name string, values map[string]string) *ValueBackend {
	return &ValueBackend{name: name, values: values}
}

func (v *ValueBackend) Name() string { return v.name }

func (v *ValueBackend) Get(ctx context.Context, key string) (string, error) {
	if value := strings.TrimSpace(v.values[key]); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("%w: %s", ErrSecretNotFound, key)
}

func (v *ValueBackend) Set(ctx context.Context, key string, value string) error {
	return ErrReadOnlyBackend
}

func (v *ValueBackend) Delete(ctx context.Context, key string) error {
	return ErrReadOnlyBackend
}

func (v *ValueBackend) Available() bool { return true }

func (v *ValueBackend) Priority() int { return ValueBackendPriority }

func (v *ValueBackend) ReadOnly() bool { return true }
