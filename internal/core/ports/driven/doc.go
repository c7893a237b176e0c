// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): embedding and LLM backends, the vector
// index, the document store, and snapshot persistence.
//
// Implementations live under internal/adapters/driven and
// internal/index.
package driven
