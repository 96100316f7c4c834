package yaml

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Mark identifies a position in a YAML source stream for diagnostics: the
// source name, a byte offset, and a 0-based line/column pair.
type Mark struct {
	Name   string
	Index  int
	Line   int
	Column int
}

func (m Mark) String() string {
	if m.Name == "" {
		return fmt.Sprintf("line %d, column %d", m.Line+1, m.Column+1)
	}
	return fmt.Sprintf("%q, line %d, column %d", m.Name, m.Line+1, m.Column+1)
}

// markedError is embedded by every fatal error kind in the taxonomy below.
// It always carries two marks: where the enclosing construct started
// (Context/ContextMark) and where the problem itself was found
// (Problem/ProblemMark). Only the composer and constructor (Construct) and
// the representer (Represent) build these kinds; the reader, scanner,
// parser and emitter under internal/ return plain "yaml: ..." errors, so
// ReaderError, ScannerError, ParserError and EmitterError are not produced.
type markedError struct {
	Context     string
	ContextMark Mark
	Problem     string
	ProblemMark Mark
	cause       error
}

func (e *markedError) Error() string {
	var s string
	if e.Context != "" {
		s = fmt.Sprintf("%s at %s: %s at %s", e.Context, e.ContextMark, e.Problem, e.ProblemMark)
	} else {
		s = fmt.Sprintf("%s at %s", e.Problem, e.ProblemMark)
	}
	if e.cause != nil {
		s += ": " + e.cause.Error()
	}
	return s
}

func (e *markedError) Unwrap() error { return e.cause }

// ReaderError reports a failure decoding the input byte stream into
// characters (bad BOM, invalid UTF-8/UTF-16 sequence, or an I/O error
// surfaced from the underlying reader).
type ReaderError struct{ markedError }

// ScannerError reports a lexical failure: unterminated quotes, bad
// escapes, a tab used for indentation, a mixed block/flow violation, an
// unresolved simple-key candidate, or a malformed directive.
type ScannerError struct{ markedError }

// ParserError reports a syntax failure: an unexpected token, more than one
// %YAML directive, an unknown tag handle, or a bare "?" where 1.1 rules
// forbid it in a plain scalar.
type ParserError struct{ markedError }

// ComposerError reports an alias referencing an unbound anchor, or more
// than one document where a single-document API was used.
type ComposerError struct{ markedError }

// ConstructorError reports a type-coercion failure, an unhashable mapping
// key, or (unless Config.AllowDuplicateKeys is set) a duplicate key.
type ConstructorError struct{ markedError }

// RepresenterError reports a value with no registered representer and no
// applicable default (e.g. a channel or a func).
type RepresenterError struct{ markedError }

// EmitterError reports an event sequence the emitter state machine cannot
// honor (for example a SequenceEnd with no matching SequenceStart).
type EmitterError struct{ markedError }

// newError builds one of the fatal error kinds below. A non-nil cause is wrapped
// with pkg/errors so the resulting error carries a stack trace to the
// point it entered this package, without losing Unwrap-ability to the
// original error.
func newError(kind string, context string, contextMark Mark, problem string, problemMark Mark, cause error) error {
	if cause != nil {
		cause = pkgerrors.WithStack(cause)
	}
	me := markedError{Context: context, ContextMark: contextMark, Problem: problem, ProblemMark: problemMark, cause: cause}
	switch kind {
	case "reader":
		return &ReaderError{me}
	case "scanner":
		return &ScannerError{me}
	case "parser":
		return &ParserError{me}
	case "composer":
		return &ComposerError{me}
	case "constructor":
		return &ConstructorError{me}
	case "representer":
		return &RepresenterError{me}
	case "emitter":
		return &EmitterError{me}
	default:
		panic("yaml: unknown error kind " + kind)
	}
}

// Warning kinds. Kept as string constants rather than distinct Go types
// since both carry the exact same shape (a mark and a message) and a
// caller's sink almost always switches on Kind anyway.
const (
	ReusedAnchorWarning       = "reused-anchor"
	DuplicateKeyFutureWarning = "duplicate-key"
)

// Warning is the non-fatal counterpart to the error kinds above: the
// pipeline can finish despite one, but a caller may want to know it
// happened. Kind is either "reused-anchor" or "duplicate-key".
type Warning struct {
	Kind string
	Mark Mark
	Text string
}

func (w Warning) String() string { return fmt.Sprintf("%s: %s at %s", w.Kind, w.Text, w.Mark) }

// WarningSink receives non-fatal diagnostics: Construct delivers a
// DuplicateKeyFutureWarning for each duplicate mapping key tolerated
// because Config.AllowDuplicateKeys is set. No stage emits
// ReusedAnchorWarning; a redefined anchor silently rebinds later aliases.
// A nil sink silently drops warnings, matching the library-wide
// rule that this package never writes to stdout/stderr on the caller's
// behalf.
type WarningSink interface {
	Warn(w Warning)
}

type discardSink struct{}

func (discardSink) Warn(Warning) {}

// WarningFunc adapts a plain function to the WarningSink interface.
type WarningFunc func(Warning)

func (f WarningFunc) Warn(w Warning) { f(w) }
