// Package framework abstracts the native data-analysis framework that owns
// canvases, geometry volumes and graphics globals. rootbook never links the
// native process directly; everything it needs is expressed here as
// interfaces, with an in-memory implementation (mem.go) backing tests and
// the CLI.
package framework

// Severity mirrors the native framework's diagnostic severity ladder.
// Messages at or below the process-wide error-ignore level are suppressed.
type Severity int

const (
	SeverityUnset   Severity = -1
	SeverityPrint   Severity = 0
	SeverityInfo    Severity = 1000
	SeverityWarning Severity = 2000
	SeverityError   Severity = 3000
	SeverityBreak   Severity = 4000
)

// Object is anything the native framework can hold in a primitive list:
// drawables, the global style, color tables, palettes.
type Object interface {
	Class() string
	Name() string
}

// Drawable is a canvas or geometry volume captured during a sweep.
type Drawable interface {
	Object

	// IsCanvas reports whether this is a plot canvas. Geometry volumes
	// return false and take a different display path.
	IsCanvas() bool

	Width() int
	Height() int

	// Primitives is the mutable list of direct child objects. Scene JSON
	// production temporarily injects graphics globals into it.
	Primitives() *ObjectList

	// PrimitiveClasses returns the class names of all child primitives,
	// collected recursively and sorted.
	PrimitiveClasses() []string

	// SaveTo renders the drawable to the file at path. The format is taken
	// from the file extension.
	SaveTo(path string) error
}

// Canvas extends Drawable with the drawn flag the sweep keys on. The flag
// lives on the native object: it is set when the canvas is painted and
// reset by the drawer once the canvas has been displayed, making it
// eligible for capture again.
type Canvas interface {
	Drawable

	Drawn() bool
	MarkDrawn()
	ResetDrawn()
}

// Framework is the queried surface of the native process.
type Framework interface {
	// Canvases returns all open canvases, drawn or not.
	Canvases() []Canvas

	// ActiveVolume returns the geometry volume marked for user painting,
	// or nil if none is pending.
	ActiveVolume() Drawable
	ClearActiveVolume()

	// Graphics globals injected into scene JSON.
	Style() Object
	Colors() *ColorTable
	Palette() []int

	ErrorIgnoreLevel() Severity
	SetErrorIgnoreLevel(level Severity)

	// HasJSONSerializer reports whether the native build carries the scene
	// serializer. Without it interactive rendering is impossible and every
	// drawable falls back to a static image.
	HasJSONSerializer() bool
	ConvertToJSON(d Drawable) (string, error)
}

// SuppressBelow sets the error-ignore level for the duration of fn and
// restores the previous level afterward.
func SuppressBelow(fw Framework, level Severity, fn func() error) error {
	prev := fw.ErrorIgnoreLevel()
	fw.SetErrorIgnoreLevel(level)
	defer fw.SetErrorIgnoreLevel(prev)
	return fn()
}
