// Package ir provides the value types shared by the morphology engine and
// the tooling around it.
//
// This package contains type definitions and small pure helpers only. All
// other internal packages import ir; ir imports nothing internal. This keeps
// ir the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - NO float feature values - features are strings, ints or bools
//   - LanguageCard is immutable after construction and shared freely
//   - Every table lookup is total: a miss yields the "default" entry or ""
//   - All JSON tags use snake_case
package ir
