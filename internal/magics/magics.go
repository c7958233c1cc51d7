// Package magics parses and dispatches notebook magic commands. A cell
// magic (%%name) consumes the whole remaining cell; a line magic (%name)
// one line, with the rest of the cell still executing as code.
package magics

import (
	"fmt"
	"io"
	"strings"

	"rootbook/internal/interp"
)

// Env carries what magic handlers may touch. Handlers never reach into the
// kernel directly.
type Env struct {
	Interp     interp.Interpreter
	EnableVis  func()
	DisableVis func()
	Diag       io.Writer
}

// Handler executes one magic. args are the tokens after the magic name;
// body is the remaining cell text (empty for line magics).
type Handler func(env *Env, args []string, body string) error

// Registry maps magic names to handlers.
type Registry struct {
	cell map[string]Handler
	line map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{
		cell: make(map[string]Handler),
		line: make(map[string]Handler),
	}
}

func (r *Registry) RegisterCell(name string, h Handler) { r.cell[name] = h }
func (r *Registry) RegisterLine(name string, h Handler) { r.line[name] = h }

// Dispatch inspects src for a leading magic. It returns the cell text
// still to be executed as plain code (everything for magic-free cells,
// nothing for cell magics) and whether a magic ran. Unknown magics get a
// diagnostic and the rest of the cell still executes.
func (r *Registry) Dispatch(env *Env, src string) (rest string, handled bool, err error) {
	trimmed := strings.TrimLeft(src, " \t\r\n")

	switch {
	case strings.HasPrefix(trimmed, "%%"):
		name, args, body := splitMagic(trimmed[2:])
		h, ok := r.cell[name]
		if !ok {
			fmt.Fprintf(env.Diag, "Unknown cell magic %%%%%s\n", name)
			return body, false, nil
		}
		return "", true, h(env, args, body)

	case strings.HasPrefix(trimmed, "%"):
		name, args, body := splitMagic(trimmed[1:])
		h, ok := r.line[name]
		if !ok {
			fmt.Fprintf(env.Diag, "Unknown line magic %%%s\n", name)
			return body, false, nil
		}
		return body, true, h(env, args, "")
	}

	return src, false, nil
}

// splitMagic separates "name arg arg\nbody".
func splitMagic(src string) (name string, args []string, body string) {
	line := src
	if idx := strings.IndexByte(src, '\n'); idx >= 0 {
		line, body = src[:idx], src[idx+1:]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil, body
	}
	return fields[0], fields[1:], body
}
