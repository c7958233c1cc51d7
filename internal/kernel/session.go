// Package kernel ties the bridge together for one notebook session: the
// interpreter, the output-capture session, the magic registry and the
// drawable sweep, wired into the front end's execution hooks.
package kernel

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"rootbook/internal/capture"
	"rootbook/internal/config"
	"rootbook/internal/display"
	"rootbook/internal/events"
	"rootbook/internal/framework"
	"rootbook/internal/history"
	"rootbook/internal/interp"
	"rootbook/internal/magics"
	"rootbook/internal/render"
)

// Session is one notebook kernel session.
type Session struct {
	fw      framework.Framework
	ip      interp.Interpreter
	handler capture.IOHandler
	capture *capture.Session
	events  *events.Registry
	magics  *magics.Registry
	env     *magics.Env
	pub     display.Publisher
	hist    *history.Store
	opts    render.Options
	diag    io.Writer
	log     *zap.Logger
}

// New assembles a session. handler is the stream-duplication handle the
// interpreter writes through; pub receives display bundles. A nil logger
// is replaced with a no-op one.
func New(fw framework.Framework, ip interp.Interpreter, handler capture.IOHandler,
	pub display.Publisher, cfg config.Config, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}

	opts := render.DefaultOptions()
	opts.DefaultWidth = cfg.Canvas.Width
	opts.DefaultHeight = cfg.Canvas.Height
	if cfg.Renderer.LocalURL != "" {
		opts.LocalRendererURL = cfg.Renderer.LocalURL
	}
	if cfg.Renderer.CDNURL != "" {
		opts.CDNRendererURL = cfg.Renderer.CDNURL
	}
	if len(cfg.Renderer.ExcludePatterns) > 0 {
		opts.Patterns = cfg.Renderer.ExcludePatterns
	}
	opts.Logger = log.Named("render")

	s := &Session{
		fw:      fw,
		ip:      ip,
		handler: handler,
		capture: capture.NewSession(handler, pub, log.Named("capture")),
		events:  events.NewRegistry(log.Named("events")),
		magics:  magics.NewRegistry(),
		pub:     pub,
		opts:    opts,
		diag:    os.Stderr,
		log:     log,
	}
	s.env = &magics.Env{
		Interp:     ip,
		EnableVis:  s.EnableJSVis,
		DisableVis: s.DisableJSVis,
		Diag:       s.diag,
	}
	magics.RegisterBuiltins(s.magics)
	s.register()
	return s
}

// register wires the hooks: capture brackets the cell, the drawer sweep
// runs after capture has drained so a display never mixes with an
// in-progress capture.
func (s *Session) register() {
	s.events.Register(events.PreExecute, s.capture.PreExecute)
	s.events.Register(events.PostExecute, s.capture.PostExecute)
	s.events.Register(events.PostExecute, s.sweep)
}

// SetDiag redirects diagnostic messages (classifier refusals, unbalanced
// braces, unknown magics). Defaults to the process error stream.
func (s *Session) SetDiag(w io.Writer) {
	s.diag = w
	s.env.Diag = w
}

// SetHistory attaches an execution-history store. Optional; history
// failures are logged, never fatal.
func (s *Session) SetHistory(h *history.Store) { s.hist = h }

// Events exposes the hook registry so a front end can fire the execution
// events itself.
func (s *Session) Events() *events.Registry { return s.events }

// RegisterTransformer appends an output transformer to the capture chain.
func (s *Session) RegisterTransformer(t capture.Transformer) {
	s.capture.RegisterTransformer(t)
}

// Capture exposes the capture session, mainly for stream redirection.
func (s *Session) Capture() *capture.Session { return s.capture }

// Warmup consumes the capture session's first-invocation skip so the next
// ExecuteCell runs a full capture cycle. Front ends that fire hooks during
// kernel startup get this behavior for free; the CLI calls it explicitly.
func (s *Session) Warmup() {
	s.capture.PreExecute()
	s.capture.PostExecute()
}

// ExecuteCell runs one cell: pre_execute hooks, magic dispatch, plain code
// through the interpreter, post_execute hooks (capture drain + drawer
// sweep), then history. Display failures degrade; they never abort the
// cell.
func (s *Session) ExecuteCell(src string) {
	started := time.Now()
	s.events.Fire(events.PreExecute)

	rest, _, err := s.magics.Dispatch(s.env, src)
	if err != nil {
		fmt.Fprintln(s.diag, err)
	}
	if strings.TrimSpace(rest) != "" {
		interp.ProcessCell(s.ip, rest, s.diag)
	}

	s.events.Fire(events.PostExecute)
	s.appendHistory(src, started)
}

func (s *Session) sweep() {
	render.Sweep(s.fw, s.opts, s.pub)
}

func (s *Session) appendHistory(src string, started time.Time) {
	if s.hist == nil {
		return
	}
	err := s.hist.Append(history.Entry{
		Source:   src,
		Stdout:   s.handler.Stdout(),
		Stderr:   s.handler.Stderr(),
		Started:  started,
		Finished: time.Now(),
	})
	if err != nil {
		s.log.Warn("history append failed", zap.Error(err))
	}
}

// EnableJSVis turns on interactive visualisation for this process. A
// no-op with a one-time diagnostic when the framework lacks the scene
// serializer.
func (s *Session) EnableJSVis() { render.EnableJSVis(s.fw) }

func (s *Session) DisableJSVis() { render.DisableJSVis() }

// EnableJSVisDebug emits both artifacts for every drawable.
func (s *Session) EnableJSVisDebug() { render.EnableJSVisDebug(s.fw) }

func (s *Session) DisableJSVisDebug() { render.DisableJSVisDebug() }
