package ir

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a machine-readable generation error code.
type ErrorCode string

const (
	CodeUnresolvedReference         ErrorCode = "unresolved_reference"
	CodeMissingOperationID          ErrorCode = "missing_operation_id"
	CodeTypeMapping                 ErrorCode = "type_mapping"
	CodeUnregisteredSynthesizedType ErrorCode = "unregistered_synthesized_type"
	CodeNameCollision               ErrorCode = "name_collision"
)

// Error is raised at the point a document cannot be turned into a client.
// Path, Method and Schema carry whatever context was known at detection time.
type Error struct {
	Code    ErrorCode
	Message string

	// Document is the input file, when known.
	Document string
	// Path is the route template (e.g. "/widgets/{id}").
	Path string
	// Method is the lower-case HTTP verb.
	Method string
	// Schema is the schema name or reference involved.
	Schema string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	if e.Document != "" {
		b.WriteString(e.Document)
		b.WriteString(": ")
	}
	if e.Method != "" || e.Path != "" {
		b.WriteString(strings.ToUpper(e.Method))
		if e.Method != "" {
			b.WriteString(" ")
		}
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	if e.Schema != "" && !strings.Contains(e.Message, e.Schema) {
		b.WriteString("schema ")
		b.WriteString(e.Schema)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// NewError creates a new generation error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf creates a new generation error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithRoute returns a copy of e annotated with the route, keeping existing values.
func (e *Error) WithRoute(path, method string) *Error {
	c := *e
	if c.Path == "" {
		c.Path = path
	}
	if c.Method == "" {
		c.Method = method
	}
	return &c
}

// WithSchema returns a copy of e annotated with a schema name.
func (e *Error) WithSchema(name string) *Error {
	c := *e
	if c.Schema == "" {
		c.Schema = name
	}
	return &c
}

// WithDocument returns a copy of e annotated with the input document.
func (e *Error) WithDocument(doc string) *Error {
	c := *e
	if c.Document == "" {
		c.Document = doc
	}
	return &c
}

// AsError extracts the first *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsCode reports whether err's chain contains an *Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	e, ok := AsError(err)
	return ok && e.Code == code
}

// AnnotateRoute adds route context to err. Errors that are not *Error are
// wrapped as a type mapping failure so the route context is never lost.
func AnnotateRoute(err error, path, method string) error {
	if err == nil {
		return nil
	}
	if e, ok := AsError(err); ok {
		return e.WithRoute(path, method)
	}
	return &Error{Code: CodeTypeMapping, Message: "cannot extract operation", Path: path, Method: method, Err: err}
}

// AnnotateDocument adds the document name to err.
func AnnotateDocument(err error, doc string) error {
	if err == nil {
		return nil
	}
	if e, ok := AsError(err); ok {
		return e.WithDocument(doc)
	}
	return fmt.Errorf("%s: %w", doc, err)
}
