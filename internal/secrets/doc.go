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
Package secrets resolves the HeyReach API key.

Keys are looked up through a priority-ordered chain of backends:

	env      - HEYREACH_API_KEY and HEYREACH_SECRET_<KEY> (priority 100, read-only)
	keychain - OS keychain under the "heyreach" service (priority 50)
	config   - api.api_key from the config file (priority 25, read-only)

Build a resolver and hand it to the client:

	resolver := secrets.NewResolver(
	    secrets.NewEnvBackend(),
	    secrets.NewKeychainBackend(),
	    secrets.NewValueBackend("config", map[string]string{secrets.APIKeyName: cfg.API.APIKey}),
	)
	client, err := heyreach.NewClient(heyreach.Config{Credentials: secrets.NewKeyCache(resolver)})

Only writable backends receive Set and Delete, which in practice means the
keychain.
*/
package secrets
