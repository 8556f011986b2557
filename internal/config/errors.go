package config

import (
	"fmt"
)

// MissingConfigError reports an explicitly requested configuration file that
// could not be read.
type MissingConfigError struct {
	Path string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("configuration file missing or unreadable: %s", e.Path)
}

// InvalidConfigError reports a configuration candidate that exists but does
// not parse as a structured document.
type InvalidConfigError struct {
	Wrapped error
	Source  string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("%s is not a valid configuration document: %v", e.Source, e.Wrapped)
}

func (e *InvalidConfigError) Unwrap() error { return e.Wrapped }

// InvalidManifestError reports a project manifest that is not valid JSON.
type InvalidManifestError struct {
	Path string
}

func (e *InvalidManifestError) Error() string {
	return fmt.Sprintf("%s is not a valid JSON document", e.Path)
}

// SchemaViolationError reports a configuration document that parsed but does
// not satisfy the configuration schema.
type SchemaViolationError struct {
	Wrapped error
	Source  string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("%s does not satisfy the configuration schema: %v", e.Source, e.Wrapped)
}

func (e *SchemaViolationError) Unwrap() error { return e.Wrapped }
