package render

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rootbook/internal/display"
	"rootbook/internal/framework"
)

// Options configures drawers produced during a sweep.
type Options struct {
	// DefaultWidth/DefaultHeight size the container for drawables without
	// an intrinsic size (geometry volumes).
	DefaultWidth  int
	DefaultHeight int

	// Renderer library locations for the loader chain.
	LocalRendererURL string
	CDNRendererURL   string

	// Patterns overrides the classifier denylist when non-nil.
	Patterns []string

	Logger *zap.Logger
}

// DefaultOptions returns the stock sweep configuration.
func DefaultOptions() Options {
	return Options{
		DefaultWidth:     800,
		DefaultHeight:    600,
		LocalRendererURL: "static/scripts/JSRoot.core.js",
		CDNRendererURL:   "https://root.cern/js/6.1.0/scripts/JSRoot.core.min.js",
	}
}

// Drawer renders one captured drawable. From the caller's perspective a
// drawable moves NotYetRendered -> Rendered exactly once per execution
// cycle; the upstream sweep only builds drawers for objects whose drawn
// flag is set, and Close resets that flag on the native object.
type Drawer struct {
	fw         framework.Framework
	obj        framework.Drawable
	isCanvas   bool
	classifier *Classifier
	opts       Options
	log        *zap.Logger
}

// NewDrawer wraps obj for display.
func NewDrawer(fw framework.Framework, obj framework.Drawable, opts Options) *Drawer {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Drawer{
		fw:         fw,
		obj:        obj,
		isCanvas:   obj.IsCanvas(),
		classifier: &Classifier{Framework: fw, Patterns: opts.Patterns},
		opts:       opts,
		log:        log,
	}
}

// Object returns the wrapped drawable.
func (d *Drawer) Object() framework.Drawable { return d.obj }

// HTML produces the interactive fragment: scene JSON embedded in a loader
// snippet under a unique container id.
func (d *Drawer) HTML() (string, error) {
	sceneJSON, err := SceneJSON(d.fw, d.obj)
	if err != nil {
		return "", fmt.Errorf("render: scene JSON for %s: %w", d.obj.Name(), err)
	}

	width, height := d.opts.DefaultWidth, d.opts.DefaultHeight
	options := "all"
	if d.isCanvas {
		width, height = d.obj.Width(), d.obj.Height()
		options = ""
	}

	// The id doubles as a JavaScript function-name suffix in the loader
	// snippet, so it must stay a valid identifier: hex only, no hyphens.
	u := uuid.New()
	var buf bytes.Buffer
	err = jsFragment.Execute(&buf, fragmentData{
		DivID:       "root_plot_" + hex.EncodeToString(u[:]),
		Width:       width,
		Height:      height,
		JSON:        sceneJSON,
		DrawOptions: options,
		LocalURL:    d.opts.LocalRendererURL,
		CDNURL:      d.opts.CDNRendererURL,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PNG renders the drawable to a uniquely named temporary file, suppressing
// native diagnostics at or below Error severity for the duration, and
// returns the file contents. The temporary file is removed before return.
func (d *Drawer) PNG() ([]byte, error) {
	path := filepath.Join(os.TempDir(), "rootbook_"+uuid.NewString()+".png")
	defer os.Remove(path)

	err := framework.SuppressBelow(d.fw, framework.SeverityError, func() error {
		return d.obj.SaveTo(path)
	})
	if err != nil {
		return nil, fmt.Errorf("render: static image for %s: %w", d.obj.Name(), err)
	}
	return os.ReadFile(path)
}

// Display publishes the drawable. Debug mode emits both the static image
// and the interactive fragment; otherwise exactly one, chosen by
// classification. Interactive failures degrade to the static path rather
// than aborting the cell.
func (d *Drawer) Display(pub display.Publisher) error {
	if JSVisDebugEnabled() {
		if err := d.publishPNG(pub); err != nil {
			return err
		}
		return d.publishHTML(pub)
	}
	if d.classifier.CanRenderJS(d.obj) {
		if err := d.publishHTML(pub); err == nil {
			return nil
		}
		fmt.Fprintf(Diag, "Interactive rendering of %s failed. Falling back to a static png.\n", d.obj.Name())
	}
	return d.publishPNG(pub)
}

func (d *Drawer) publishHTML(pub display.Publisher) error {
	fragment, err := d.HTML()
	if err != nil {
		d.log.Warn("interactive rendering failed",
			zap.String("drawable", d.obj.Name()), zap.Error(err))
		return err
	}
	return pub.Publish(display.HTML(fragment))
}

func (d *Drawer) publishPNG(pub display.Publisher) error {
	img, err := d.PNG()
	if err != nil {
		d.log.Warn("static rendering failed",
			zap.String("drawable", d.obj.Name()), zap.Error(err))
		return err
	}
	return pub.Publish(display.PNG(img))
}

// Close releases the drawable for future sweeps: a canvas gets its drawn
// flag reset on the native object, a geometry drawer clears the
// framework's active-volume pointer.
func (d *Drawer) Close() {
	if d.isCanvas {
		if c, ok := d.obj.(framework.Canvas); ok {
			c.ResetDrawn()
		}
		return
	}
	d.fw.ClearActiveVolume()
}
