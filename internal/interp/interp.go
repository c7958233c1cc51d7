// Package interp bridges notebook cells into an embedded interpreter. The
// native C++ interpreter is an external collaborator reached through the
// Interpreter interface; YaegiInterpreter is the in-process implementation
// used by the CLI and the tests.
package interp

import (
	"fmt"
	"io"
)

// ErrCode classifies the outcome of processing a line of code.
type ErrCode int

const (
	// NoError: the input was processed.
	NoError ErrCode = iota
	// Failure: the input was processed and raised an error.
	Failure
	// Processing: the input was incomplete (unbalanced braces). The
	// implementation has already aborted its pending input buffer.
	Processing
)

// Interpreter executes code handed over by magic commands and plain cells.
type Interpreter interface {
	// ProcessLine evaluates code. A Processing return means the input was
	// incomplete and has been discarded.
	ProcessLine(code string) (ErrCode, error)

	// Declare introduces declarations without evaluating statements.
	Declare(code string) error

	// CompileMacro compiles and loads the macro file at path.
	CompileMacro(path string) error

	// LoadLibrary loads a previously compiled library.
	LoadLibrary(path string) error
}

// ProcessCell runs one cell body through ip, reporting incomplete input
// the way the notebook expects. Errors are diagnostics, never fatal to the
// kernel.
func ProcessCell(ip Interpreter, code string, diag io.Writer) {
	errc, err := ip.ProcessLine(code)
	if errc == Processing {
		fmt.Fprintln(diag, "Unbalanced braces. This cell was not processed.")
		return
	}
	if err != nil {
		fmt.Fprintln(diag, err)
	}
}

// BracesBalanced reports whether every opening brace in code is closed.
// Braces inside comments and string or character literals do not count.
func BracesBalanced(code string) bool {
	depth := 0
	for _, r := range stripNonCode(code) {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// stripNonCode blanks out comments and string/char literals, preserving
// newlines so line-oriented diagnostics stay meaningful.
func stripNonCode(code string) string {
	out := make([]rune, 0, len(code))
	runes := []rune(code)

	const (
		plain = iota
		lineComment
		blockComment
		dquote
		squote
		backquote
	)
	state := plain

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		next := rune(0)
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch state {
		case plain:
			switch {
			case r == '/' && next == '/':
				state = lineComment
				i++
			case r == '/' && next == '*':
				state = blockComment
				i++
			case r == '"':
				state = dquote
			case r == '\'':
				state = squote
			case r == '`':
				state = backquote
			default:
				out = append(out, r)
				continue
			}
			out = append(out, ' ')
		case lineComment:
			if r == '\n' {
				state = plain
				out = append(out, '\n')
			}
		case blockComment:
			if r == '*' && next == '/' {
				state = plain
				i++
			} else if r == '\n' {
				out = append(out, '\n')
			}
		case dquote:
			if r == '\\' {
				i++
			} else if r == '"' {
				state = plain
			}
		case squote:
			if r == '\\' {
				i++
			} else if r == '\'' {
				state = plain
			}
		case backquote:
			if r == '`' {
				state = plain
			} else if r == '\n' {
				out = append(out, '\n')
			}
		}
	}
	return string(out)
}
