// Package events is the front-end hook registry. The notebook front end
// fires pre_execute/post_execute around every cell; rootbook registers the
// capture session and the drawer sweep here.
package events

import (
	"go.uber.org/zap"
)

// Event names fired around cell execution.
const (
	PreExecute  = "pre_execute"
	PostExecute = "post_execute"
)

// Registry dispatches named events to callbacks in registration order.
// Return values are not consumed; a panicking callback is recovered and
// logged so one hook cannot abort the cell.
type Registry struct {
	hooks map[string][]func()
	log   *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		hooks: make(map[string][]func()),
		log:   log,
	}
}

// Register appends fn to the callback list for event.
func (r *Registry) Register(event string, fn func()) {
	r.hooks[event] = append(r.hooks[event], fn)
}

// Fire invokes every callback registered for event, in order.
func (r *Registry) Fire(event string) {
	for _, fn := range r.hooks[event] {
		r.fire(event, fn)
	}
}

func (r *Registry) fire(event string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("hook panicked", zap.String("event", event), zap.Any("panic", rec))
		}
	}()
	fn()
}
