package interp

import (
	"fmt"
	"io"
	"os"

	yaegi "github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// YaegiInterpreter runs cells in an embedded Go interpreter. It stands in
// for the native C++ interpreter when rootbook runs without a native
// process attached: same cell protocol, Go source instead of C++.
type YaegiInterpreter struct {
	ip *yaegi.Interpreter
}

// NewYaegi builds an interpreter writing to the given streams. These are
// normally the capture handler's writers so cell output is drained by the
// capture session.
func NewYaegi(stdout, stderr io.Writer) (*YaegiInterpreter, error) {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	ip := yaegi.New(yaegi.Options{Stdout: stdout, Stderr: stderr})
	if err := ip.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("interp: loading stdlib symbols: %w", err)
	}
	return &YaegiInterpreter{ip: ip}, nil
}

func (y *YaegiInterpreter) ProcessLine(code string) (ErrCode, error) {
	if !BracesBalanced(code) {
		// Nothing was buffered; the incomplete input is simply dropped.
		return Processing, nil
	}
	if _, err := y.ip.Eval(code); err != nil {
		return Failure, err
	}
	return NoError, nil
}

// Declare evaluates declarations. Yaegi has no separate declaration
// channel; evaluating top-level declarations is the equivalent.
func (y *YaegiInterpreter) Declare(code string) error {
	_, err := y.ip.Eval(code)
	return err
}

// CompileMacro interprets the macro source at path. There is no compiled
// artifact in the embedded case; loading means evaluating.
func (y *YaegiInterpreter) CompileMacro(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = y.ip.Eval(string(src))
	return err
}

// LoadLibrary behaves like CompileMacro for the embedded interpreter.
func (y *YaegiInterpreter) LoadLibrary(path string) error {
	return y.CompileMacro(path)
}
