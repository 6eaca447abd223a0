// Package match provides identifier normalization and Levenshtein-based
// similarity, used to suggest property and field names in diagnostics.
//
// Key functions:
//   - NormalizeIdent: folds case and strips separators
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks candidate names by similarity
package match
