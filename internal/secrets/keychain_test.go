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
	"testing"

	"github.com/zalando/go-keyring"
)

func TestKeychainBackend_RoundTrip(t *testing.T) {
	keyring.MockInit()
	ctx := context.Background()

	backend := NewKeychainBackend()
	if !backend.Available() {
		t.Fatal("mock keychain should be available")
	}
	if backend.Name() != "keychain" {
		t.Errorf("Name() = %q, want keychain", backend.Name())
	}

	if _, err := backend.Get(ctx, APIKeyName); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("Get() on empty keychain error = %v, want ErrSecretNotFound", err)
	}

	if err := backend.Set(ctx, APIKeyName, "hr-123"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := backend.Get(ctx, APIKeyName)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "hr-123" {
		t.Errorf("Get() = %q, want hr-123", got)
	}

	if err := backend.Delete(ctx, APIKeyName); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := backend.Delete(ctx, APIKeyName); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("second Delete() error = %v, want ErrSecretNotFound", err)
	}
}

func TestKeychainBackend_Unavailable(t *testing.T) {
	keyring.MockInitWithError(errors.New("dbus: connection refused"))
	t.Cleanup(keyring.MockInit)

	backend := NewKeychainBackend()
	if backend.Available() {
		t.Fatal("keychain should be unavailable when the probe fails")
	}
	if _, err := backend.Get(context.Background(), APIKeyName); !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("Get() error = %v, want ErrBackendUnavailable", err)
	}
}

func TestIsKeychainUnavailableError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("The keychain is locked"), true},
		{errors.New("org.freedesktop.secrets: Secret Service not running"), true},
		{errors.New("item not found"), false},
	}
	for _, tt := range tests {
		if got := isKeychainUnavailableError(tt.err); got != tt.want {
			t.Errorf("isKeychainUnavailableError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
