package events

import "sync"

// Registry maps an event type to at most one handler.
type Registry struct {
	mu       sync.RWMutex
	handlers map[Type]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[Type]Handler)}
}

// On registers h for t unless a handler for t already exists; the first
// registration wins and later ones are ignored. It reports whether h was
// registered.
func (r *Registry) On(t Type, h Handler) bool {
	if h == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.handlers[t]; ok {
		return false
	}
	r.handlers[t] = h

	return true
}

func (r *Registry) Handler(t Type) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handlers[t]
	return h, ok
}
