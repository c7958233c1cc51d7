package render

import (
	"rootbook/internal/framework"
)

// colorTableThreshold is the number of defined colors above which the full
// color table is shipped with the scene. Below it the renderer's built-in
// table is sufficient.
const colorTableThreshold = 599

// paletteName is the name the renderer expects for the active palette.
const paletteName = "CurrentColorPalette"

// SceneJSON serializes d together with the graphics globals the renderer
// needs: the default style object, the full color table when more than
// colorTableThreshold colors are defined, and the active palette. The
// globals are injected into the drawable's primitive list for the duration
// of the conversion and removed afterward, restoring the prior list
// exactly. Globals that were already present are left untouched.
func SceneJSON(fw framework.Framework, d framework.Drawable) (string, error) {
	prim := d.Primitives()
	var injected []framework.Object

	if style := fw.Style(); style != nil && !prim.Has(style) {
		prim.Add(style)
		injected = append(injected, style)
	}

	colors := fw.Colors()
	if colors != nil && colors.Defined() >= colorTableThreshold && !prim.Has(colors) {
		prim.Add(colors)
		injected = append(injected, colors)

		palette := framework.NewObjectList(paletteName)
		for _, idx := range fw.Palette() {
			if c := colors.At(idx); c != nil {
				palette.Add(c)
			}
		}
		prim.Add(palette)
		injected = append(injected, palette)
	}

	defer func() {
		for _, obj := range injected {
			prim.Remove(obj)
		}
	}()

	return fw.ConvertToJSON(d)
}
