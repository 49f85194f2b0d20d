// Package ir holds the canonical data model shared by the compiler, the
// analysis session, the store and the harness.
//
// Source systems (SystemSpec) describe constraint trees with numbers kept as
// exact decimal or fraction text. Results (SystemResult) carry normalized
// affine forms with coefficients rendered by the active numeric domain.
//
// Key constraints:
//   - No float types anywhere; numbers travel as strings
//   - All JSON tags use snake_case
//   - Identity is content-addressed over canonical JSON (MarshalCanonical)
//
// ir imports nothing internal.
package ir
