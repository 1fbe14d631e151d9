package convert

import "fmt"

// SchemaError reports a layout description whose top-level shape is
// unusable. Per-element problems never produce a SchemaError; they are
// clamped, skipped or dropped with a warning instead.
type SchemaError struct {
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("convert: invalid layout: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("convert: invalid layout: %s", e.Reason)
}

func (e *SchemaError) Unwrap() error { return e.Err }

func schemaErrorf(err error, format string, args ...interface{}) error {
	return &SchemaError{Reason: fmt.Sprintf(format, args...), Err: err}
}

// SerializationError reports a document that was assembled but could not
// be encoded. It is fatal for the request. Processed records how many
// elements had been synthesized into shapes before the failure.
type SerializationError struct {
	Processed int
	Err       error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("convert: failed to serialize document: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
