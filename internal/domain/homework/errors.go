// internal/domain/homework/errors.go
package homework

import (
	"fmt"
	"strings"
)

// TransportError means the request to the status endpoint could not be completed.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamStatusError means the endpoint answered with a non-2xx status code.
type UpstreamStatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("%s responded with status %d", e.Endpoint, e.StatusCode)
}

// MalformedResponseError reports a missing or misshapen field in a payload.
// Field is empty when the payload itself has the wrong shape.
type MalformedResponseError struct {
	Field string
	// Shape is the observed JSON kind ("object", "null", ...); empty when the field is missing.
	Shape string
	// Index points at the offending element of "homeworks", -1 when not applicable.
	Index int
}

// MissingField returns a MalformedResponseError for an absent key.
func MissingField(field string) *MalformedResponseError {
	return &MalformedResponseError{Field: field, Index: -1}
}

// WrongShape returns a MalformedResponseError for a field holding an unexpected JSON kind.
func WrongShape(field, shape string) *MalformedResponseError {
	return &MalformedResponseError{Field: field, Shape: shape, Index: -1}
}

func (e *MalformedResponseError) Missing() bool { return e.Shape == "" }

func (e *MalformedResponseError) Error() string {
	var b strings.Builder
	b.WriteString("malformed response: ")
	switch {
	case e.Field == "":
		fmt.Fprintf(&b, "payload is %s, expected object", e.Shape)
	case e.Missing():
		fmt.Fprintf(&b, "missing field %q", e.Field)
	default:
		fmt.Fprintf(&b, "field %q is %s", e.Field, e.Shape)
	}
	if e.Index >= 0 {
		fmt.Fprintf(&b, " (homeworks[%d])", e.Index)
	}
	return b.String()
}

// UnknownStatusError carries a status code missing from the verdict table.
type UnknownStatusError struct {
	Status string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown homework status %q", e.Status)
}
