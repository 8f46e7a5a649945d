// Package errors provides the unified error taxonomy for the Kya toolchain
// and source-context formatting for presenting those errors to a terminal.
// It formats errors with source context, line/column information, and a
// caret pointing to the offending position.
package errors

import (
	"fmt"
	"strings"
)

// Position identifies a 1-based line and column in a source file.
type Position struct {
	Line   int
	Column int
}

// Kind tags the variant of a KyaError: one case per failure category in
// the language's error taxonomy.
type Kind int

const (
	// Lexer reports a malformed token (unterminated string, malformed number, …).
	Lexer Kind = iota
	// Parser reports a grammar violation.
	Parser
	// Compilation reports a static error detected while emitting bytecode
	// (non-identifier assignment target, operand overflow, …).
	Compilation
	// Runtime reports a generic failure raised while executing bytecode.
	Runtime
	// Type reports a protocol-slot dispatch against an unsupported type.
	Type
	// Value reports a well-typed but semantically invalid value.
	Value
	// UndefinedVariable reports a name-resolution miss.
	UndefinedVariable
	// NotImplemented names an unimplemented operation. No code path in this
	// module constructs it; a missing protocol slot is reported as Type.
	NotImplemented
)

func (k Kind) String() string {
	switch k {
	case Lexer:
		return "LexerError"
	case Parser:
		return "ParserError"
	case Compilation:
		return "CompilationError"
	case Runtime:
		return "RuntimeError"
	case Type:
		return "TypeError"
	case Value:
		return "ValueError"
	case UndefinedVariable:
		return "UndefinedVariable"
	case NotImplemented:
		return "NotImplemented"
	default:
		return "Error"
	}
}

// StackFrame names one in-flight function call, for reporting which calls
// were active when a Runtime error escaped.
type StackFrame struct {
	FunctionName string
}

// StackTrace is a call stack snapshot, ordered oldest call first.
type StackTrace []StackFrame

// KyaError is the single concrete error type backing every variant of the
// language's error taxonomy. `break` has no variant here: the compiler
// resolves it to a Jump instruction patched to the enclosing loop's exit
// (see internal/compiler), so no runtime signal is needed to unwind a
// loop body.
type KyaError struct {
	Kind    Kind
	Message string
	Source  string
	File    string
	Pos     Position
	Trace   StackTrace
}

// WithTrace attaches a call-stack snapshot (outermost call first), used by
// internal/vm to report which functions were active when a Runtime error
// escaped. It returns the receiver for chaining.
func (e *KyaError) WithTrace(trace StackTrace) *KyaError {
	e.Trace = trace
	return e
}

// New constructs a KyaError of the given kind at the given position.
func New(kind Kind, pos Position, message string) *KyaError {
	return &KyaError{Kind: kind, Message: message, Pos: pos}
}

// Newf is New with fmt.Sprintf-style message formatting.
func Newf(kind Kind, pos Position, format string, args ...any) *KyaError {
	return New(kind, pos, fmt.Sprintf(format, args...))
}

// WithSource attaches source text and a file name, used later for caret
// formatting. It returns the receiver for chaining.
func (e *KyaError) WithSource(source, file string) *KyaError {
	e.Source = source
	e.File = file
	return e
}

// Error implements the error interface.
func (e *KyaError) Error() string {
	return e.Format(false)
}

// ANSI styles used by Format when color is requested.
const (
	stylePointer = "\033[1;31m"
	styleStrong  = "\033[1m"
	styleReset   = "\033[0m"
)

// Format renders the error for terminal output: one header line combining
// kind, location, and message, then the offending source line with a
// column pointer when source text is attached, then the active call stack
// when one was captured. If color is true, ANSI escapes highlight the
// message and the pointer.
func (e *KyaError) Format(color bool) string {
	paint := func(style, s string) string {
		if !color {
			return s
		}
		return style + s + styleReset
	}

	out := []string{e.header() + ": " + paint(styleStrong, e.Message)}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		gutter := fmt.Sprintf("  %d | ", e.Pos.Line)
		pad := len(gutter) + e.Pos.Column - 1
		out = append(out,
			gutter+line,
			strings.Repeat(" ", pad)+paint(stylePointer, "^"))
	}

	if len(e.Trace) > 0 {
		out = append(out, "", "Call stack:")
		for i := len(e.Trace) - 1; i >= 0; i-- {
			out = append(out, "  "+e.Trace[i].FunctionName)
		}
	}

	return strings.Join(out, "\n")
}

// header names the error kind and its position, including the file when
// one was attached via WithSource.
func (e *KyaError) header() string {
	if e.File != "" {
		return fmt.Sprintf("%s in %s:%d:%d", e.Kind, e.File, e.Pos.Line, e.Pos.Column)
	}
	return fmt.Sprintf("%s at line %d:%d", e.Kind, e.Pos.Line, e.Pos.Column)
}

// sourceLine extracts a 1-indexed line from e.Source.
func (e *KyaError) sourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatErrors renders a batch of errors, numbering them when there is more
// than one.
func FormatErrors(errs []*KyaError, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(color)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("failed with %d error(s):\n\n", len(errs)))
	for i, err := range errs {
		sb.WriteString(fmt.Sprintf("[Error %d of %d]\n", i+1, len(errs)))
		sb.WriteString(err.Format(color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
