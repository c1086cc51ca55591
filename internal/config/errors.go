package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty DSN or non-positive pool bounds).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, a timezone name that does not resolve).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidParserConfigs indicates invalid expense-parser settings
	// (for example, missing base URL or zero request timeout).
	ErrInvalidParserConfigs = errors.New("invalid parser configuration")
)
