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

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// CorrelationAttribute is the span attribute carrying the correlation ID.
const CorrelationAttribute = "heyreach.correlation_id"

// CorrelationID identifies one invocation across logs, spans and output.
// It is an RFC 4122 UUID in canonical form.
type CorrelationID string

type correlationKeyType struct{}

var correlationKey = correlationKeyType{}

// NewCorrelationID generates a random correlation ID.
func NewCorrelationID() CorrelationID {
	return CorrelationID(uuid.NewString())
}

// ParseCorrelationID accepts s when it is a canonical UUID.
func ParseCorrelationID(s string) (CorrelationID, bool) {
	id := CorrelationID(s)
	return id, id.IsValid()
}

// String returns the string representation of the correlation ID.
func (c CorrelationID) String() string {
	return string(c)
}

// IsValid reports whether the ID is a canonical 36 character UUID.
func (c CorrelationID) IsValid() bool {
	return len(c) == 36 && uuid.Validate(string(c)) == nil
}

// ToContext stores the correlation ID in ctx.
func ToContext(ctx context.Context, id CorrelationID) context.Context {
	return context.WithValue(ctx, correlationKey, id)
}

// FromContext returns the correlation ID stored in ctx, generating a new one
// when there is none.
func FromContext(ctx context.Context) CorrelationID {
	if id := FromContextOrEmpty(ctx); id != "" {
		return id
	}
	return NewCorrelationID()
}

// FromContextOrEmpty returns the correlation ID stored in ctx, or "".
func FromContextOrEmpty(ctx context.Context) CorrelationID {
	id, _ := ctx.Value(correlationKey).(CorrelationID)
	return id
}

// Attributes returns the correlation span attribute for ctx, if any.
func Attributes(ctx context.Context) []attribute.KeyValue {
	id := FromContextOrEmpty(ctx)
	if id == "" {
		return nil
	}
	return []attribute.KeyValue{attribute.String(CorrelationAttribute, id.String())}
}
