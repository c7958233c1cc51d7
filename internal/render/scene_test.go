package render

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"rootbook/internal/framework"
)

func primitiveNames(l *framework.ObjectList) []string {
	var out []string
	for _, obj := range l.Items() {
		out = append(out, obj.Class()+"/"+obj.Name())
	}
	return out
}

func TestSceneJSONRestoresPrimitives(t *testing.T) {
	resetVis(t)
	fw := framework.NewMem()
	c := fw.NewCanvas("c1", 800, 600)
	c.Primitives().Add(framework.NewObject("TH1F", "h1"))

	before := primitiveNames(c.Primitives())

	doc, err := SceneJSON(fw, c)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(doc, `"Modern"`) {
		t.Error("scene JSON must carry the injected style")
	}

	after := primitiveNames(c.Primitives())
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("primitive list mutated (-before +after):\n%s", diff)
	}
}

func TestSceneJSONKeepsPreexistingStyle(t *testing.T) {
	resetVis(t)
	fw := framework.NewMem()
	c := fw.NewCanvas("c1", 800, 600)
	c.Primitives().Add(fw.Style())

	if _, err := SceneJSON(fw, c); err != nil {
		t.Fatal(err)
	}

	// The style was there before the call; it must survive the cleanup.
	if !c.Primitives().Has(fw.Style()) {
		t.Error("pre-existing style removed")
	}
	if c.Primitives().Len() != 1 {
		t.Errorf("primitive count = %d, want 1", c.Primitives().Len())
	}
}

func TestSceneJSONColorTableThreshold(t *testing.T) {
	resetVis(t)

	t.Run("below threshold", func(t *testing.T) {
		fw := framework.NewMem()
		for i := 0; i < colorTableThreshold-1; i++ {
			fw.Colors().Set(&framework.Color{Index: i})
		}
		c := fw.NewCanvas("c1", 800, 600)

		doc, err := SceneJSON(fw, c)
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(doc, "ColorTable") {
			t.Error("color table must not ship below the threshold")
		}
	})

	t.Run("at threshold with palette", func(t *testing.T) {
		fw := framework.NewMem()
		for i := 0; i < colorTableThreshold; i++ {
			fw.Colors().Set(&framework.Color{Index: i})
		}
		fw.SetPalette([]int{1, 2, 3})
		c := fw.NewCanvas("c1", 800, 600)
		before := primitiveNames(c.Primitives())

		doc, err := SceneJSON(fw, c)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(doc, "ColorTable") {
			t.Error("full color table must ship at the threshold")
		}
		if !strings.Contains(doc, paletteName) {
			t.Error("active palette must ship with the color table")
		}

		after := primitiveNames(c.Primitives())
		if diff := cmp.Diff(before, after); diff != "" {
			t.Errorf("primitive list mutated (-before +after):\n%s", diff)
		}
	})
}
