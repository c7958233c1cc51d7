package render

import (
	"fmt"
	"path"

	"rootbook/internal/framework"
)

// DefaultExcludePatterns lists primitive class-name globs the browser-side
// renderer cannot currently handle. A single match forces the static path.
var DefaultExcludePatterns = []string{"TEve*", "TF3", "TPolyLine3D"}

// Classifier decides whether a drawable may be rendered interactively.
// The zero value is not usable; Framework must be set.
type Classifier struct {
	Framework framework.Framework

	// Patterns overrides DefaultExcludePatterns when non-nil.
	Patterns []string
}

// CanRenderJS reports whether interactive rendering may proceed for d.
//
// Refusal is never fatal: a false return selects the static-image path.
// Geometry volumes are always attempted interactively; for canvases the
// global enable flag and the exclusion patterns are consulted, first match
// wins. Matching is case-sensitive glob matching on primitive class names.
func (c *Classifier) CanRenderJS(d framework.Drawable) bool {
	if !serializerAvailable(c.Framework) {
		return false
	}
	if !d.IsCanvas() {
		return true
	}
	if !JSVisEnabled() {
		return false
	}
	patterns := c.Patterns
	if patterns == nil {
		patterns = DefaultExcludePatterns
	}
	classes := d.PrimitiveClasses()
	for _, pattern := range patterns {
		for _, class := range classes {
			ok, err := path.Match(pattern, class)
			if err != nil {
				// Malformed pattern; ignore it rather than block rendering.
				break
			}
			if ok {
				fmt.Fprintf(Diag, "The canvas contains an object of a type the interactive "+
					"renderer cannot currently handle (%s). Falling back to a static png.\n", class)
				return false
			}
		}
	}
	return true
}
