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
	"errors"
	"fmt"
	"sort"
)

// Resolver manages a chain of SecretBackends and resolves secrets
// by querying backends in priority order.
type Resolver struct {
	backends []SecretBackend
}

// NewResolver creates a resolver over the available backends, sorted by
// priority (highest first).
func NewResolver(backends ...SecretBackend) *Resolver {
	available := make([]SecretBackend, 0, len(backends))
	for _, b := range backends {
		if b != nil && b.Available() {
			available = append(available, b)
		}
	}

	sort.SliceStable(available, func(i, j int) bool {
		return available[i].Priority() > available[j].Priority()
	})

	return &Resolver{backends: available}
}

// Get retrieves a secret by querying backends in priority order.
func (r *Resolver) Get(ctx context.Context, key string) (string, error) {
	value, _, err := r.Lookup(ctx, key)
	return value, err
}

// Lookup is Get that also reports which backend supplied the value.
func (r *Resolver) Lookup(ctx context.Context, key string) (string, string, error) {
	if len(r.backends) == 0 {
		return "", "", fmt.Errorf("%w: no available backends", ErrBackendUnavailable)
	}

	var lastErr error
	for _, backend := range r.backends {
		value, err := backend.Get(ctx, key)
		if err == nil {
			return value, backend.Name(), nil
		}
		if !errors.Is(err, ErrSecretNotFound) {
			lastErr = err
		}
	}

	if lastErr != nil {
		return "", "", fmt.Errorf("failed to get secret %q: %w", key, lastErr)
	}
	return "", "", fmt.Errorf("%w: %q", ErrSecretNotFound, key)
}

// Set stores a secret in the highest-priority writable backend.
func (r *Resolver) Set(ctx context.Context, key string, value string) error {
	for _, backend := range r.writable() {
		if err := backend.Set(ctx, key, value); err != nil {
			if errors.Is(err, ErrReadOnlyBackend) {
				continue
			}
			return fmt.Errorf("failed to set secret in %s: %w", backend.Name(), err)
		}
		return nil
	}
	return fmt.Errorf("%w: no writable backend", ErrBackendUnavailable)
}

// Delete removes a secret from every writable backend holding it.
func (r *Resolver) Delete(ctx context.Context, key string) error {
	deleted := false
	for _, backend := range r.writable() {
		if err := backend.Delete(ctx, key); err != nil {
			if errors.Is(err, ErrSecretNotFound) || errors.Is(err, ErrReadOnlyBackend) {
				continue
			}
			return fmt.Errorf("failed to delete secret from %s: %w", backend.Name(), err)
		}
		deleted = true
	}

	if !deleted {
		return fmt.Errorf("%w: %q", ErrSecretNotFound, key)
	}
	return nil
}

// APIKey resolves the HeyReach API key. A key missing from every backend is
// reported as "" so the client can raise its credentials error.
func (r *Resolver) APIKey(ctx context.Context) (string, error) {
	value, err := r.Get(ctx, APIKeyName)
	if errors.Is(err, ErrSecretNotFound) {
		return "", nil
	}
	return value, err
}

// Backends returns the available backends in priority order.
func (r *Resolver) Backends() []SecretBackend {
	return r.backends
}

func (r *Resolver) writable() []SecretBackend {
	out := make([]SecretBackend, 0, len(r.backends))
	for _, backend := range r.backends {
		if ro, ok := backend.(ReadOnlyBackend); ok && ro.ReadOnly() {
			continue
		}
		out = append(out, backend)
	}
	return out
}
