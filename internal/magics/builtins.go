package magics

import (
	"fmt"

	"rootbook/internal/interp"
)

// RegisterBuiltins installs the stock magics: %%cpp and %jsroot.
func RegisterBuiltins(r *Registry) {
	r.RegisterCell("cpp", cppMagic)
	r.RegisterLine("jsroot", jsrootMagic)
}

// cppMagic routes the cell body into the interpreter. Flags:
//
//	-d, --declare   declare only, do not execute statements
//	-a, --aclic     compile the body as a macro and load it
func cppMagic(env *Env, args []string, body string) error {
	declare, compile := false, false
	for _, arg := range args {
		switch arg {
		case "-d", "--declare":
			declare = true
		case "-a", "--aclic":
			compile = true
		default:
			fmt.Fprintf(env.Diag, "Unknown %%%%cpp option %s\n", arg)
		}
	}

	switch {
	case compile:
		return interp.InvokeMacro(env.Interp, body, interp.MacroOptions{Diag: env.Diag})
	case declare:
		if err := env.Interp.Declare(body); err != nil {
			fmt.Fprintln(env.Diag, err)
		}
		return nil
	default:
		interp.ProcessCell(env.Interp, body, env.Diag)
		return nil
	}
}

// jsrootMagic toggles interactive visualisation: %jsroot on|off.
func jsrootMagic(env *Env, args []string, _ string) error {
	if len(args) == 0 {
		env.EnableVis()
		return nil
	}
	switch args[0] {
	case "on":
		env.EnableVis()
	case "off":
		env.DisableVis()
	default:
		fmt.Fprintf(env.Diag, "Usage: %%jsroot on|off (got %q)\n", args[0])
	}
	return nil
}
