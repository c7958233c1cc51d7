package interp

import (
	"crypto/sha1"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// LibExtension returns the shared-library file extension for a platform
// as reported by runtime.GOOS.
func LibExtension(platform string) string {
	switch platform {
	case "darwin":
		return ".dylib"
	case "windows":
		return ".dll"
	default:
		return ".so"
	}
}

// MacroFilename derives a unique file name for a piece of code: the first
// 8 hex chars of its SHA1, an underscore, and a sub-second timestamp.
// Re-running the same cell yields distinct names.
func MacroFilename(code, ext string) string {
	sum := sha1.Sum([]byte(code))
	stamp := time.Now().Format("150405") + fmt.Sprintf("%06d", time.Now().Nanosecond()/1000)
	return fmt.Sprintf("%x_%s%s", sum[:4], stamp, ext)
}

// DumpToUniqueFile writes code to a uniquely named file in dir and returns
// the path.
func DumpToUniqueFile(code, dir, ext string) (string, error) {
	path := filepath.Join(dir, MacroFilename(code, ext))
	if err := os.WriteFile(path, []byte(code), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// CheckOutput runs command, returning its combined output. Failures are
// swallowed except for a diagnostic; the caller continues regardless.
func CheckOutput(command, errMsg string, diag io.Writer) []byte {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return nil
	}
	out, err := exec.Command(parts[0], parts[1:]...).CombinedOutput()
	if err != nil && errMsg != "" {
		fmt.Fprintf(diag, "%s (command was %s)\n", errMsg, command)
	}
	return out
}

// MacroOptions configures the compiled-macro path.
type MacroOptions struct {
	// Dir receives the dumped macro file. Defaults to the working
	// directory.
	Dir string
	// Ext is the macro source extension, ".C" for the native interpreter.
	Ext string
	// Diag receives diagnostics from swallowed failures.
	Diag io.Writer
}

// InvokeMacro dumps cell to a uniquely named macro file and asks the
// interpreter to compile and load it.
//
// On darwin the native toolchain cannot link the compiled macro against
// some of the framework bundles in-process, so compilation goes through a
// separate framework process and only the resulting library is loaded.
// That external command's failure is swallowed except for a diagnostic.
func InvokeMacro(ip Interpreter, cell string, opts MacroOptions) error {
	if opts.Ext == "" {
		opts.Ext = ".C"
	}
	if opts.Diag == nil {
		opts.Diag = os.Stderr
	}
	file, err := DumpToUniqueFile(cell, opts.Dir, opts.Ext)
	if err != nil {
		return err
	}

	if runtime.GOOS == "darwin" {
		command := fmt.Sprintf(`root -l -q -b -e gSystem->CompileMacro("%s","k")*0`, file)
		CheckOutput(command, "Error invoking the macro compiler", opts.Diag)
		lib := strings.TrimSuffix(file, opts.Ext) + "_" + strings.TrimPrefix(opts.Ext, ".") + LibExtension(runtime.GOOS)
		return ip.LoadLibrary(lib)
	}

	return ip.CompileMacro(file)
}
