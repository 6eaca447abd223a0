// Package diagnostic collects configuration errors and warnings raised while
// planning a mapped class.
//
// Key capabilities:
//   - One diagnostic per offending property, keyed by class and property
//   - Stable codes for programmatic checks
//   - "Did you mean" suggestions
//   - A combined error wrapping ErrIllegalConfiguration
package diagnostic
