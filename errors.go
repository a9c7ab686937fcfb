package schemakit

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeUnknownKey    = "unknown_key"
	CodeInvalidEnum   = "invalid_enum"
	CodeInvalidFormat = "invalid_format"
	CodeUnionMismatch = "union_mismatch"
	CodeParseError    = "parse_error"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer into the data document (for example: /meters/2/status).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, expected values, etc.
	// Params carries structured parameters (e.g., {"expected":"string", "got":"number"})
	// for i18n and observability.
	Params map[string]string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Code, displayPath(i.Path), i.Message)
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s at %s", it.Code, displayPath(it.Path))
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	var one Issue
	if errors.As(err, &one) {
		return Issues{one}, true
	}
	return nil, false
}

func displayPath(p string) string {
	if p == "" {
		return "root"
	}
	return p
}

// NotFoundError reports a missing input directory or file, or a schema
// directory with no schema documents in it.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("schemakit: not found: %s", e.Path)
}

// MalformedDocumentError reports a schema or data file that is not
// well-formed structured data. The whole load fails on the first malformed
// member; no partial corpus is returned.
type MalformedDocumentError struct {
	File string
	Err  error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("schemakit: malformed document %s: %v", e.File, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error { return e.Err }

// UnresolvedReferenceError reports a $ref that cannot be resolved: the target
// document is absent from the store, or the fragment path does not exist in
// the target tree. Unresolvable pointers never degrade to a placeholder.
type UnresolvedReferenceError struct {
	Ref string // the pointer expression as written
	Doc string // name of the referring document
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("schemakit: unresolved reference %q in %s", e.Ref, e.Doc)
}

// ReferenceCycleError reports a chain of $ref pointers that exceeded the
// resolver's depth bound. Self-referential definitions are legal; a chain of
// refs that never reaches a concrete node is not.
type ReferenceCycleError struct {
	Ref   string
	Doc   string
	Depth int
}

func (e *ReferenceCycleError) Error() string {
	return fmt.Sprintf("schemakit: reference cycle via %q in %s (depth %d)", e.Ref, e.Doc, e.Depth)
}

// NoMatchingSchemaError reports that the validator could not pick a schema
// for a data file by exact, singular, or plural name.
type NoMatchingSchemaError struct {
	Name string
}

func (e *NoMatchingSchemaError) Error() string {
	return fmt.Sprintf("schemakit: no matching schema for %q", e.Name)
}

// NameCollisionError reports two distinct definitions whose derived type
// names collide. The schema corpus is the defect; synthesis surfaces it
// rather than silently overwriting one definition's output.
type NameCollisionError struct {
	Name   string
	First  string // pointer of the definition that claimed the name
	Second string // pointer of the colliding definition
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("schemakit: type name %q derived from both %q and %q", e.Name, e.First, e.Second)
}
