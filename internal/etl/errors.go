package etl

import (
	"fmt"
	"strings"
)

// NotFoundError reports a raw input file that does not exist.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("raw file not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// DecodeError reports a raw input file whose content is not valid JSON.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode raw file %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// SchemaError reports a required key that is absent from an otherwise
// well-formed payload.
type SchemaError struct {
	Key string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("payload is missing required key %q", e.Key)
}

// ValidationError reports critical fields that arrived null.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("critical fields are null: %s", strings.Join(e.Fields, ", "))
}
