// Package catajson holds the configuration shared by the catajson tools.
// The engine itself lives in the jsonin, jsonout, diagnostic, translation
// and rle packages.
package catajson

import "errors"

// Common errors used throughout the catajson package
var (
	// ErrConfigValidation is returned when configuration validation fails
	ErrConfigValidation = errors.New("configuration validation failed")
)
