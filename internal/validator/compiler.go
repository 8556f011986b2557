// Package validator provides interfaces and types for JSON Schema validation.
package validator

// A JSONDocument is a valid parsed JSON document - i.e. the result of json.Unmarshal().
type JSONDocument interface{}

// A JSONSchema is a valid parsed JSON document representing a JSON Schema.
// Note that a Compiler must compile the JSONSchema before use which will identify any
// JSON Schema issues.
type JSONSchema JSONDocument

// Validator represents something which can be used to validate a JSON document.
type Validator interface {
	// Validate validates a JSON document.
	Validate(v JSONDocument) error
}

// Compiler defines a JSON Schema compiler. Schemas must be registered with the
// compiler before they can be compiled into Validators.
type Compiler interface {
	// AddSchema registers a JSONSchema with the compiler under the given id.
	AddSchema(id string, data JSONSchema) error

	// Compile creates a Validator from the JSONSchema previously added with the given id.
	Compile(id string) (Validator, error)
}
