package display

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"
)

// Terminal publishes to an attached terminal session. Plain text goes to
// the output stream, markdown is rendered with glamour, and HTML/PNG
// artifacts are written to files under OutDir with the path echoed.
type Terminal struct {
	Out    io.Writer
	OutDir string

	renderer *glamour.TermRenderer
}

// NewTerminal builds a terminal publisher writing artifacts under outDir.
// The directory is created on first use.
func NewTerminal(out io.Writer, outDir string) *Terminal {
	if out == nil {
		out = os.Stdout
	}
	return &Terminal{Out: out, OutDir: outDir}
}

func (t *Terminal) Publish(b Bundle) error {
	// Prefer the richest representation present; a bundle normally carries
	// exactly one key.
	if data, ok := b[MIMEHTML]; ok {
		return t.writeArtifact("html", data)
	}
	if data, ok := b[MIMEPNG]; ok {
		return t.writeArtifact("png", data)
	}
	if data, ok := b[MIMEMarkdown]; ok {
		return t.writeMarkdown(string(data))
	}
	if data, ok := b[MIMEPlain]; ok {
		_, err := t.Out.Write(data)
		return err
	}
	return nil
}

func (t *Terminal) writeMarkdown(src string) error {
	if t.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			// No styled rendering available; fall back to the raw source.
			_, werr := io.WriteString(t.Out, src)
			return werr
		}
		t.renderer = r
	}
	rendered, err := t.renderer.Render(src)
	if err != nil {
		_, werr := io.WriteString(t.Out, src)
		return werr
	}
	_, err = io.WriteString(t.Out, rendered)
	return err
}

func (t *Terminal) writeArtifact(ext string, data []byte) error {
	dir := t.OutDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("plot_%s.%s", uuid.NewString()[:8], ext))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	_, err := fmt.Fprintf(t.Out, "[rootbook] wrote %s\n", path)
	return err
}
