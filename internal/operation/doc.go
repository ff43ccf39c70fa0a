// Package operation provides the shared framework for HeyReach operations.
//
// It holds the pieces every resource operation and every host surface
// agrees on:
//   - Connector, the interface a host drives with a (resource, operation)
//     pair and a parameter bag
//   - Params, the loosely typed parameter bag with typed getters
//   - Error and ErrorType, the classified failure returned by operations
//   - FieldErrors, the aggregation used by per-operation input validation
//   - Metrics, the Prometheus collectors shared by the request client and hosts
//
// The HTTP transport lives in the transport subpackage; the HeyReach
// operations themselves live in internal/integration/heyreach.
package operation
