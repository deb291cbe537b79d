package events

import "sync"

// Options is a free-form key/value bag owned by the engine and handed by
// reference to every handler and watcher.
//
// Each method is atomic on its own. Nothing spans calls: two handlers running
// in parallel mode that read and then write related keys may interleave, and
// the last write wins. Callers must treat option state as eventually
// consistent.
type Options struct {
	mu     sync.RWMutex
	values map[string]any
}

func NewOptions() *Options {
	return &Options{values: make(map[string]any)}
}

func (o *Options) Get(key string) (any, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	v, ok := o.values[key]
	return v, ok
}

func (o *Options) Set(key string, value any) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.values[key] = value
}

func (o *Options) Delete(key string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	delete(o.values, key)
}

// Bool returns the value under key if it is a bool, false otherwise.
func (o *Options) Bool(key string) bool {
	v, _ := o.Get(key)
	b, _ := v.(bool)
	return b
}

func (o *Options) String(key string) string {
	v, _ := o.Get(key)
	s, _ := v.(string)
	return s
}

// Toggle flips a bool option and returns the new value. A missing or non-bool
// value counts as false.
func (o *Options) Toggle(key string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	b, _ := o.values[key].(bool)
	o.values[key] = !b

	return !b
}

// Update runs fn with the current value under key and stores its result.
func (o *Options) Update(key string, fn func(old any, ok bool) any) {
	o.mu.Lock()
	defer o.mu.Unlock()

	old, ok := o.values[key]
	o.values[key] = fn(old, ok)
}

// Snapshot returns a copy of all values.
func (o *Options) Snapshot() map[string]any {
	o.mu.RLock()
	defer o.mu.RUnlock()

	res := make(map[string]any, len(o.values))
	for k, v := range o.values {
		res[k] = v
	}

	return res
}
