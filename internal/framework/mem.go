package framework

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"sort"
)

// Mem is the in-memory reference implementation of Framework. It backs the
// package tests and the CLI when no native process is attached. SaveTo
// renders a blank raster of the canvas size; ConvertToJSON emits a
// deterministic scene document.
type Mem struct {
	canvases   []*MemCanvas
	volume     Drawable
	style      Object
	colors     *ColorTable
	palette    []int
	ignore     Severity
	serializer bool
}

// NewMem returns an empty in-memory framework with the serializer
// available and a default style object.
func NewMem() *Mem {
	return &Mem{
		style:      NewObject("Style", "Modern"),
		colors:     NewColorTable("ListOfColors"),
		ignore:     SeverityUnset,
		serializer: true,
	}
}

func (m *Mem) Canvases() []Canvas {
	out := make([]Canvas, len(m.canvases))
	for i, c := range m.canvases {
		out[i] = c
	}
	return out
}

// NewCanvas opens a canvas and registers it with the framework.
func (m *Mem) NewCanvas(name string, width, height int) *MemCanvas {
	c := &MemCanvas{
		MemNode: MemNode{
			class: "TCanvas",
			name:  name,
			prims: NewObjectList(name),
		},
		width:  width,
		height: height,
	}
	m.canvases = append(m.canvases, c)
	return c
}

// NewVolume creates a geometry volume and marks it as the active
// user-paint volume.
func (m *Mem) NewVolume(name string) *MemVolume {
	v := &MemVolume{
		MemNode: MemNode{
			class: "TGeoVolume",
			name:  name,
			prims: NewObjectList(name),
		},
	}
	m.volume = v
	return v
}

func (m *Mem) ActiveVolume() Drawable { return m.volume }
func (m *Mem) ClearActiveVolume()     { m.volume = nil }

func (m *Mem) Style() Object       { return m.style }
func (m *Mem) Colors() *ColorTable { return m.colors }
func (m *Mem) Palette() []int      { return m.palette }
func (m *Mem) SetPalette(p []int)  { m.palette = p }

func (m *Mem) ErrorIgnoreLevel() Severity         { return m.ignore }
func (m *Mem) SetErrorIgnoreLevel(level Severity) { m.ignore = level }

func (m *Mem) HasJSONSerializer() bool          { return m.serializer }
func (m *Mem) SetJSONSerializer(available bool) { m.serializer = available }

// sceneDoc is the JSON shape produced for a drawable. Primitives appear in
// list order so injection and restoration are observable.
type sceneDoc struct {
	Class      string     `json:"_typename"`
	Name       string     `json:"fName"`
	Width      int        `json:"fWidth,omitempty"`
	Height     int        `json:"fHeight,omitempty"`
	Primitives []sceneRef `json:"fPrimitives"`
}

type sceneRef struct {
	Class string `json:"_typename"`
	Name  string `json:"fName"`
}

func (m *Mem) ConvertToJSON(d Drawable) (string, error) {
	if !m.serializer {
		return "", fmt.Errorf("framework: JSON serializer not available")
	}
	doc := sceneDoc{
		Class:  d.Class(),
		Name:   d.Name(),
		Width:  d.Width(),
		Height: d.Height(),
	}
	for _, p := range d.Primitives().Items() {
		doc.Primitives = append(doc.Primitives, sceneRef{Class: p.Class(), Name: p.Name()})
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// MemNode carries the shared drawable state: class, name and the child
// primitive list.
type MemNode struct {
	class string
	name  string
	prims *ObjectList
}

func (n *MemNode) Class() string           { return n.class }
func (n *MemNode) Name() string            { return n.name }
func (n *MemNode) Primitives() *ObjectList { return n.prims }

func (n *MemNode) PrimitiveClasses() []string {
	return CollectClasses(n.prims)
}

// MemCanvas is an in-memory plot canvas.
type MemCanvas struct {
	MemNode
	width  int
	height int
	drawn  bool
}

func (c *MemCanvas) IsCanvas() bool { return true }
func (c *MemCanvas) Width() int     { return c.width }
func (c *MemCanvas) Height() int    { return c.height }

func (c *MemCanvas) Drawn() bool { return c.drawn }
func (c *MemCanvas) MarkDrawn()  { c.drawn = true }
func (c *MemCanvas) ResetDrawn() { c.drawn = false }

func (c *MemCanvas) SaveTo(path string) error {
	return saveBlankRaster(path, c.width, c.height)
}

// MemVolume is an in-memory geometry volume. It has no intrinsic size; the
// display layer applies its defaults.
type MemVolume struct {
	MemNode
}

func (v *MemVolume) IsCanvas() bool { return false }
func (v *MemVolume) Width() int     { return 0 }
func (v *MemVolume) Height() int    { return 0 }

func (v *MemVolume) SaveTo(path string) error {
	return saveBlankRaster(path, 0, 0)
}

// Composite is a primitive that itself holds children, e.g. a histogram
// with a fitted function attached. PrimitiveClasses descends into these.
type Composite struct {
	BasicObject
	prims *ObjectList
}

func NewComposite(class, name string) *Composite {
	return &Composite{
		BasicObject: BasicObject{class: class, name: name},
		prims:       NewObjectList(name),
	}
}

func (c *Composite) Primitives() *ObjectList { return c.prims }

// CollectClasses gathers the class names of every object in l, descending
// into children, and returns them sorted.
func CollectClasses(l *ObjectList) []string {
	var out []string
	var walk func(*ObjectList)
	walk = func(list *ObjectList) {
		for _, obj := range list.Items() {
			out = append(out, obj.Class())
			if inner, ok := obj.(interface{ Primitives() *ObjectList }); ok {
				walk(inner.Primitives())
			}
		}
	}
	walk(l)
	sort.Strings(out)
	return out
}

func saveBlankRaster(path string, width, height int) error {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 0xff // all white
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
