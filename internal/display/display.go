// Package display publishes execution artifacts to the notebook front end.
// A Bundle mirrors a display_data payload: one logical output keyed by MIME
// type. The front end itself is an external collaborator; rootbook only
// hands bundles to a Publisher.
package display

// MIME types produced by the bridge.
const (
	MIMEPlain    = "text/plain"
	MIMEHTML     = "text/html"
	MIMEPNG      = "image/png"
	MIMEMarkdown = "text/markdown"
)

// Bundle is MIME-keyed display data.
type Bundle map[string][]byte

// HTML wraps an HTML fragment as a bundle.
func HTML(fragment string) Bundle {
	return Bundle{MIMEHTML: []byte(fragment)}
}

// PNG wraps raster bytes as a bundle.
func PNG(data []byte) Bundle {
	return Bundle{MIMEPNG: data}
}

// Text wraps plain text as a bundle.
func Text(s string) Bundle {
	return Bundle{MIMEPlain: []byte(s)}
}

// Markdown wraps markdown source as a bundle.
func Markdown(s string) Bundle {
	return Bundle{MIMEMarkdown: []byte(s)}
}

// Publisher delivers bundles to the front end. Implementations must not
// panic on unknown MIME keys; unrecognized entries are skipped.
type Publisher interface {
	Publish(b Bundle) error
}

// Recording is a Publisher test double retaining bundles in publish order.
type Recording struct {
	Bundles []Bundle
}

func (r *Recording) Publish(b Bundle) error {
	r.Bundles = append(r.Bundles, b)
	return nil
}

// ByMIME returns every published payload carrying the given MIME key, in
// publish order.
func (r *Recording) ByMIME(mime string) [][]byte {
	var out [][]byte
	for _, b := range r.Bundles {
		if data, ok := b[mime]; ok {
			out = append(out, data)
		}
	}
	return out
}
