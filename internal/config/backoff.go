package config

import "strings"

// BackoffMode enumerates supported backoff strategies for cleanup retries.
type BackoffMode string

const (
	BackoffFixed       BackoffMode = "fixed"
	BackoffLinear      BackoffMode = "linear"
	BackoffExponential BackoffMode = "exponential"
)

// NormalizeBackoff converts arbitrary user input (case-insensitive) into a typed mode, returning empty string for unknown.
func NormalizeBackoff(raw string) BackoffMode {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(BackoffFixed):
		return BackoffFixed
	case string(BackoffLinear):
		return BackoffLinear
	case string(BackoffExponential):
		return BackoffExponential
	default:
		return ""
	}
}
