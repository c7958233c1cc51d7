package framework

import "fmt"

// BasicObject is a minimal named Object. Primitives added to in-memory
// drawables and injected graphics globals are built from it.
type BasicObject struct {
	class string
	name  string
}

func NewObject(class, name string) *BasicObject {
	return &BasicObject{class: class, name: name}
}

func (o *BasicObject) Class() string { return o.class }
func (o *BasicObject) Name() string  { return o.name }

// ObjectList is an ordered, mutable collection of Objects mirroring the
// native framework's primitive lists. Membership is by identity, matching
// the native FindObject semantics: the same style object added twice is
// still one entry.
type ObjectList struct {
	name  string
	items []Object
}

func NewObjectList(name string) *ObjectList {
	return &ObjectList{name: name}
}

func (l *ObjectList) Class() string { return "ObjectList" }
func (l *ObjectList) Name() string  { return l.name }

func (l *ObjectList) Len() int { return len(l.items) }

func (l *ObjectList) At(i int) Object { return l.items[i] }

// Items returns a copy of the backing slice; mutating it does not touch
// the list.
func (l *ObjectList) Items() []Object {
	out := make([]Object, len(l.items))
	copy(out, l.items)
	return out
}

func (l *ObjectList) Add(obj Object) {
	l.items = append(l.items, obj)
}

// Has reports whether obj is already in the list (identity comparison).
func (l *ObjectList) Has(obj Object) bool {
	for _, it := range l.items {
		if it == obj {
			return true
		}
	}
	return false
}

// Remove deletes the first identity match of obj and reports whether
// anything was removed.
func (l *ObjectList) Remove(obj Object) bool {
	for i, it := range l.items {
		if it == obj {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Color is one entry of the native color table.
type Color struct {
	Index   int
	Title   string
	R, G, B float64
}

func (c *Color) Class() string { return "Color" }
func (c *Color) Name() string  { return fmt.Sprintf("Color%d", c.Index) }

// ColorTable is the index-addressable global color table. Slots may be nil:
// the native table is sparse.
type ColorTable struct {
	name  string
	slots []*Color
}

func NewColorTable(name string) *ColorTable {
	return &ColorTable{name: name}
}

func (t *ColorTable) Class() string { return "ColorTable" }
func (t *ColorTable) Name() string  { return t.name }

// Last returns the highest defined index, or -1 for an empty table.
func (t *ColorTable) Last() int { return len(t.slots) - 1 }

// At returns the color at index i, or nil for empty slots and
// out-of-range indexes.
func (t *ColorTable) At(i int) *Color {
	if i < 0 || i >= len(t.slots) {
		return nil
	}
	return t.slots[i]
}

func (t *ColorTable) Set(c *Color) {
	for c.Index >= len(t.slots) {
		t.slots = append(t.slots, nil)
	}
	t.slots[c.Index] = c
}

// Defined counts the non-empty slots.
func (t *ColorTable) Defined() int {
	n := 0
	for _, c := range t.slots {
		if c != nil {
			n++
		}
	}
	return n
}
