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
	"sync"
)

// KeyCache remembers the resolved API key so a batch does not query the
// keychain once per request. Errors are not cached.
type KeyCache struct {
	resolver *Resolver

	mu    sync.Mutex
	value string
	ok    bool
}

// NewKeyCache wraps resolver.
func NewKeyCache(resolver *Resolver) *KeyCache {
	return &KeyCache{resolver: resolver}
}

// APIKey returns the cached key, resolving it on first use.
func (c *KeyCache) APIKey(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ok {
		return c.value, nil
	}
	value, err := c.resolver.APIKey(ctx)
	if err != nil {
		return "", err
	}
	if value != "" {
		c.value, c.ok = value, true
	}
	return value, nil
}

// Clear drops the cached key, e.g. after it was replaced or deleted.
func (c *KeyCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value, c.ok = "", false
}
