package capture

import (
	"io"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"rootbook/internal/display"
)

// OutputType tags the result of a transformer chain.
type OutputType string

const (
	// OutputPlain writes the streams verbatim.
	OutputPlain OutputType = "plain"
	// OutputHTML routes both streams to markup display.
	OutputHTML OutputType = "html"
	// OutputMarkdown routes both streams to markdown display.
	OutputMarkdown OutputType = "markdown"
)

// Transformer rewrites the captured (stdout, stderr) pair and decides how
// the result is presented.
type Transformer func(out, errText string) (string, string, OutputType)

// waitSchedule is the poll backoff: a fixed ascending sequence of short
// delays, then a constant delay once the schedule is exhausted.
var waitSchedule = []time.Duration{
	10 * time.Millisecond,
	10 * time.Millisecond,
	20 * time.Millisecond,
	40 * time.Millisecond,
	60 * time.Millisecond,
	80 * time.Millisecond,
	100 * time.Millisecond,
}

const steadyWait = 100 * time.Millisecond

// Session owns output capture for one notebook kernel session:
// Idle -> Capturing (PreExecute) -> Draining -> Idle (PostExecute).
//
// Exactly one background goroutine is outstanding at a time. Starting a
// new capture before a prior one is drained is not supported; the
// pre/post hook pairing enforces it, not internal locking.
type Session struct {
	handler IOHandler

	running atomic.Bool
	done    chan struct{}

	firstPre  bool
	firstPost bool

	transformers []Transformer

	// Session standard streams for the verbatim path.
	stdout io.Writer
	stderr io.Writer

	pub display.Publisher
	log *zap.Logger
}

// NewSession builds a capture session around the given handler. pub
// receives rich output when a transformer requests it; a nil pub drops
// rich output. A nil logger is replaced with a no-op one.
func NewSession(handler IOHandler, pub display.Publisher, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		handler:   handler,
		firstPre:  true,
		firstPost: true,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		pub:       pub,
		log:       log,
	}
}

// SetStreams redirects the verbatim output path. Used by the CLI and by
// tests; the default is the process streams.
func (s *Session) SetStreams(stdout, stderr io.Writer) {
	s.stdout = stdout
	s.stderr = stderr
}

// RegisterTransformer appends t to the chain. Transformers run in
// registration order at each PostExecute.
func (s *Session) RegisterTransformer(t Transformer) {
	s.transformers = append(s.transformers, t)
}

// PreExecute is the pre-cell-execution hook. The very first invocation is
// skipped so interpreter startup noise is not captured.
func (s *Session) PreExecute() {
	if s.firstPre {
		s.firstPre = false
		return
	}

	s.running.Store(true)
	s.handler.Clear()
	if err := s.handler.InitCapture(); err != nil {
		s.log.Warn("capture init failed", zap.Error(err))
		s.running.Store(false)
		return
	}
	s.done = make(chan struct{})
	go s.pollLoop()
}

// pollLoop drains the handle until the running flag is cleared. There is
// no hard timeout; the widening sleep bounds CPU usage, not wall-clock
// latency.
func (s *Session) pollLoop() {
	defer close(s.done)
	for i := 0; s.running.Load(); i++ {
		s.handler.Poll()
		if !s.running.Load() {
			return
		}
		wait := steadyWait
		if i < len(waitSchedule) {
			wait = waitSchedule[i]
		}
		time.Sleep(wait)
	}
}

// PostExecute is the post-cell-execution hook: stop the loop, join the
// background goroutine, one final poll, end capture, then emit the
// accumulated text. The first invocation is skipped and also clears the
// PreExecute first-skip so the following cycle is a full one.
func (s *Session) PostExecute() {
	if s.firstPost {
		s.firstPost = false
		s.firstPre = false
		return
	}

	s.running.Store(false)
	if s.done != nil {
		<-s.done
		s.done = nil
	}
	s.handler.Poll()
	s.handler.EndCapture()

	out := s.handler.Stdout()
	errText := s.handler.Stderr()
	s.emit(out, errText)
}

func (s *Session) emit(out, errText string) {
	if len(s.transformers) == 0 {
		io.WriteString(s.stdout, out)
		io.WriteString(s.stderr, errText)
		return
	}

	otype := OutputPlain
	for _, t := range s.transformers {
		out, errText, otype = t(out, errText)
	}

	switch otype {
	case OutputHTML:
		s.publish(display.HTML(out))
		s.publish(display.HTML(errText))
	case OutputMarkdown:
		s.publish(display.Markdown(out))
		s.publish(display.Markdown(errText))
	default:
		io.WriteString(s.stdout, out)
		io.WriteString(s.stderr, errText)
	}
}

func (s *Session) publish(b display.Bundle) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(b); err != nil {
		s.log.Warn("rich output publish failed", zap.Error(err))
	}
}
