// Package errors defines the typed error model shared by the schema
// builder, the path grammars and the instance constructor.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode identifies one failure class of the data model core.
type ErrorCode string

const (
	// ErrMalformedLibraryData indicates a library descriptor that is not
	// structurally valid JSON/YAML.
	ErrMalformedLibraryData ErrorCode = "library-malformed"
	// ErrUnrecognizedLibraryFormat indicates a well-formed descriptor whose
	// top-level member is not YANG-library shaped.
	ErrUnrecognizedLibraryFormat ErrorCode = "library-unrecognized"
	// ErrModuleNotFound indicates an imported module missing from the set.
	ErrModuleNotFound ErrorCode = "module-not-found"
	// ErrModuleNotRegistered indicates a path prefix naming an unknown module.
	ErrModuleNotRegistered ErrorCode = "module-not-registered"

	// ErrDuplicateNode indicates two data-bearing siblings with one name.
	ErrDuplicateNode ErrorCode = "duplicate-node"
	// ErrAugmentTarget indicates an augment whose target path does not
	// resolve in the assembled tree.
	ErrAugmentTarget ErrorCode = "augment-target"
	// ErrTypeUnresolved indicates a leaf type reference that resolves to no
	// known type, or a typedef cycle.
	ErrTypeUnresolved ErrorCode = "type-unresolved"
	// ErrGroupingUnresolved indicates a uses statement naming an unknown
	// grouping, or grouping expansion exceeding the recursion bound.
	ErrGroupingUnresolved ErrorCode = "grouping-unresolved"

	// ErrPathSyntax indicates a malformed path or identifier string.
	ErrPathSyntax ErrorCode = "path-syntax"
	// ErrPathResolution indicates a syntactically valid resource identifier
	// step that names no schema node.
	ErrPathResolution ErrorCode = "path-resolution"
	// ErrInstanceValidation indicates raw data that does not conform to the
	// schema under the active content type.
	ErrInstanceValidation ErrorCode = "instance-validation"
)

// Error carries an error code plus whatever context the failure site had:
// the owning module for build errors, the data or schema path for
// validation errors, the byte offset for parse errors. Offset is -1 when
// position is meaningless.
type Error struct {
	Code    ErrorCode
	Message string
	Module  string
	Path    string
	Offset  int
}

// New builds an Error without position context.
func New(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Offset: -1}
}

// NewAt builds a parse or resolution Error at a byte offset.
func NewAt(code ErrorCode, offset int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Offset: offset}
}

// WithModule attaches the owning module name.
func (e *Error) WithModule(module string) *Error {
	e.Module = module
	return e
}

// WithPath attaches the offending schema or data path.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// Error formats the error for display, including code and context.
func (e *Error) Error() string {
	if e == nil {
		return "error <nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.Module != "" {
		fmt.Fprintf(&b, " in module %s", e.Module)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " at %s", e.Path)
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " (offset %d)", e.Offset)
	}
	return b.String()
}

// CodeOf extracts the error code from err, or "" when err carries none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.Code
	}
	return ""
}

// HasCode reports whether err or any wrapped error carries code.
func HasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) && e != nil && e.Code == code {
		return true
	}
	return false
}
