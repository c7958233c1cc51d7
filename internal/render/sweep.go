package render

import (
	"rootbook/internal/display"
	"rootbook/internal/framework"
)

// CanvasDrawers builds a drawer for every open canvas whose drawn flag is
// set.
func CanvasDrawers(fw framework.Framework, opts Options) []*Drawer {
	var drawers []*Drawer
	for _, c := range fw.Canvases() {
		if c.Drawn() {
			drawers = append(drawers, NewDrawer(fw, c, opts))
		}
	}
	return drawers
}

// GeometryDrawer builds a drawer for the active user-paint volume, or nil
// when none is pending.
func GeometryDrawer(fw framework.Framework, opts Options) *Drawer {
	vol := fw.ActiveVolume()
	if vol == nil {
		return nil
	}
	return NewDrawer(fw, vol, opts)
}

// Sweep displays everything drawn since the last sweep: the geometry
// viewer first, then each drawn canvas. Every drawer is closed after
// display so the underlying object can be captured again on a future
// sweep.
func Sweep(fw framework.Framework, opts Options, pub display.Publisher) {
	if geo := GeometryDrawer(fw, opts); geo != nil {
		_ = geo.Display(pub)
		geo.Close()
	}
	for _, d := range CanvasDrawers(fw, opts) {
		_ = d.Display(pub)
		d.Close()
	}
}
