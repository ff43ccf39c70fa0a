// Package host runs connector operations over a batch of input items.
//
// Each item is executed in order. A result list becomes one output unit per
// element; any other result becomes a single unit. A failed item either
// aborts the batch or, with ContinueOnFail, becomes an {"error": message}
// unit. Units may then be filtered with an expr predicate and reshaped with
// a jq program.
package host
