// Package domain defines the core business entities for Curio.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested text with metadata
//   - Chunk: The unit of embedding and retrieval
//   - SearchResult: A retrieved chunk with its similarity score
//   - Role: An answer-generation persona with its prompt configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
