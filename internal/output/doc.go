// Package output assembles and encodes resolution reports so that
// identical inputs produce byte-identical JSON. That property is what
// makes golden tests trustworthy, lets CI diff two runs, and keeps the
// dependency index rebuildable from a report.
//
// # Ordering Contract
//
// Every array in a report is deterministically sorted:
//
//   - templates: path ASC
//   - records (per template): runtimeName ASC, then module ASC
//   - dependencies (project rollup): runtimeName ASC, then module ASC
//   - diagnostics: severity priority, then path, line, column, code ASC
//   - rewrites: position ASC, then source spelling ASC
//
// # JSON Encoding Rules
//
// DeterministicEncode produces byte-identical output by sorting object
// keys, rounding floats to at most 6 decimal places, and omitting nil
// or empty fields entirely.
//
// # Snapshot Testing
//
// Only the run block varies between identical runs (id, generatedAt,
// durationMs). NormalizeForSnapshot strips those fields so two reports
// can be compared byte-for-byte in tests.
package output
