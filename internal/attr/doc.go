// Package attr provides the constrained attribute value types carried by
// ledger records.
//
// This package contains value and serialization primitives only. All other
// internal packages import attr; attr imports nothing internal. This keeps
// it the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Attributes are flat: string keys mapped to scalar values only
//   - NO float types anywhere - floats break hash determinism, use Int
//   - Canonical serialization is the ONLY form used for record hashing
package attr
