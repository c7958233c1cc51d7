// Package capture drains stdout/stderr produced by interpreted code while
// a cell runs. A background goroutine polls the native stream-duplication
// handle between cell boundaries; the hand-off back to the orchestration
// goroutine is strictly sequential, so the accumulated text is never read
// while capture is still in progress.
package capture

import (
	"bytes"
	"io"
	"os"
	"sync"
)

// IOHandler is the native stream-duplication handle. InitCapture starts
// duplicating the process streams, Poll drains whatever is pending into
// the accumulated buffers, EndCapture stops duplication. Stdout/Stderr
// return the accumulated text since the last Clear.
type IOHandler interface {
	InitCapture() error
	EndCapture()
	Poll()
	Clear()
	Stdout() string
	Stderr() string
}

// BufferedHandler is an in-process IOHandler. The interpreter is pointed
// at OutWriter/ErrWriter; Poll moves pending bytes into the accumulated
// buffers. Writes and polls race by design (the interpreter runs on the
// orchestration goroutine, the poll loop in the background), so the
// pending buffers are mutex-guarded.
//
// Outside a capture window writes pass through to the process streams,
// the way undeduplicated native streams still reach the terminal.
type BufferedHandler struct {
	mu         sync.Mutex
	capturing  bool
	passOut    io.Writer
	passErr    io.Writer
	pendingOut bytes.Buffer
	pendingErr bytes.Buffer
	out        bytes.Buffer
	err        bytes.Buffer
}

func NewBufferedHandler() *BufferedHandler {
	return &BufferedHandler{passOut: os.Stdout, passErr: os.Stderr}
}

// SetPassthrough redirects writes arriving outside a capture window.
// Defaults to the process streams.
func (h *BufferedHandler) SetPassthrough(stdout, stderr io.Writer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.passOut = stdout
	h.passErr = stderr
}

// OutWriter returns the writer interpreted code should use as stdout.
func (h *BufferedHandler) OutWriter() *handlerWriter {
	return &handlerWriter{h: h, stderr: false}
}

// ErrWriter returns the writer interpreted code should use as stderr.
func (h *BufferedHandler) ErrWriter() *handlerWriter {
	return &handlerWriter{h: h, stderr: true}
}

func (h *BufferedHandler) InitCapture() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.capturing = true
	return nil
}

func (h *BufferedHandler) EndCapture() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.capturing = false
}

// Poll drains pending bytes into the accumulated buffers.
func (h *BufferedHandler) Poll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.out.Write(h.pendingOut.Bytes())
	h.err.Write(h.pendingErr.Bytes())
	h.pendingOut.Reset()
	h.pendingErr.Reset()
}

// Clear resets both the pending and the accumulated buffers.
func (h *BufferedHandler) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pendingOut.Reset()
	h.pendingErr.Reset()
	h.out.Reset()
	h.err.Reset()
}

func (h *BufferedHandler) Stdout() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.out.String()
}

func (h *BufferedHandler) Stderr() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err.String()
}

type handlerWriter struct {
	h      *BufferedHandler
	stderr bool
}

func (w *handlerWriter) Write(p []byte) (int, error) {
	w.h.mu.Lock()
	defer w.h.mu.Unlock()
	if !w.h.capturing {
		if w.stderr {
			return w.h.passErr.Write(p)
		}
		return w.h.passOut.Write(p)
	}
	if w.stderr {
		return w.h.pendingErr.Write(p)
	}
	return w.h.pendingOut.Write(p)
}
