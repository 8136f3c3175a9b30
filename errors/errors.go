package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseConfig  Phase = "config"  // delta table / engine configuration
	PhaseDecode  Phase = "decode"  // module interchange decoding
	PhaseEncode  Phase = "encode"  // module interchange encoding
	PhaseRewrite Phase = "rewrite" // rewrite pipeline
	PhaseCache   Phase = "cache"   // report cache I/O
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidData   Kind = "invalid_data"
	KindInvalidInput  Kind = "invalid_input"
	KindSchemaVersion Kind = "schema_version"
	KindUnsupported   Kind = "unsupported"
	KindNotFound      Kind = "not_found"
	KindInvalidDelta  Kind = "invalid_delta"
	KindBadVersion    Kind = "bad_version"
	KindOperandKind   Kind = "operand_kind"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Symbol string // member or type full name, when one is involved
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Symbol != "" {
		b.WriteString(": ")
		b.WriteString(e.Symbol)
	}

	if e.Detail != "" {
		if e.Symbol != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Symbol sets the member or type name the error refers to
func (b *Builder) Symbol(s string) *Builder {
	b.err.Symbol = s
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// SchemaVersion creates a schema version mismatch error
func SchemaVersion(phase Phase, got, want uint16) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindSchemaVersion,
		Detail: fmt.Sprintf("schema version %d, expected %d", got, want),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidDelta creates an error for a malformed delta table entry
func InvalidDelta(index int, detail string) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidDelta,
		Path:   []string{fmt.Sprintf("delta[%d]", index)},
		Detail: detail,
	}
}

// BadVersion creates an error for an unparseable version string
func BadVersion(phase Phase, raw string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBadVersion,
		Detail: fmt.Sprintf("version %q", raw),
		Cause:  cause,
	}
}

// OperandKind creates an error for an operand that does not match its opcode
func OperandKind(symbol, detail string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindOperandKind,
		Symbol: symbol,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
