// Package render decides, per captured drawable, whether it can be shipped
// to the browser-side renderer as a JSON scene graph or must fall back to a
// static raster, and produces both artifacts.
package render

import (
	"fmt"
	"io"
	"os"

	"rootbook/internal/framework"
)

// Diag receives the human-readable diagnostics the classifier and the
// drawers emit. Defaults to the process error stream.
var Diag io.Writer = os.Stderr

const serializerMissingMessage = "The scene JSON serializer is required for interactive visualisation " +
	"to work and cannot be found. Did you enable the http module in the native build?"

// Process-wide visualisation flags. The notebook execution model is
// single-threaded at the orchestration layer; these are mutated only from
// the main goroutine.
var (
	visEnabled       bool
	visDebug         bool
	serializerWarned bool
)

// serializerAvailable reports whether the native framework can serialize a
// scene. The missing-serializer diagnostic is printed once per process;
// afterwards every drawable silently takes the static path.
func serializerAvailable(fw framework.Framework) bool {
	if fw.HasJSONSerializer() {
		return true
	}
	if !serializerWarned {
		serializerWarned = true
		fmt.Fprintln(Diag, serializerMissingMessage)
	}
	return false
}

// JSVisEnabled reports whether interactive rendering is globally enabled.
func JSVisEnabled() bool { return visEnabled }

// JSVisDebugEnabled reports whether debug mode is on. Debug mode emits both
// the static and the interactive artifact for every drawable.
func JSVisDebugEnabled() bool { return visDebug }

// EnableJSVis turns on interactive rendering. A no-op when the framework
// lacks the scene serializer.
func EnableJSVis(fw framework.Framework) {
	if !serializerAvailable(fw) {
		return
	}
	visEnabled = true
}

func DisableJSVis() {
	visEnabled = false
}

// EnableJSVisDebug turns on debug mode, which implies interactive
// rendering.
func EnableJSVisDebug(fw framework.Framework) {
	if !serializerAvailable(fw) {
		return
	}
	visEnabled = true
	visDebug = true
}

func DisableJSVisDebug() {
	visEnabled = false
	visDebug = false
}
