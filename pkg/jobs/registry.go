package jobs

import "sync"

// Handle identifies a value held by a Registry.
type Handle uint64

// Registry hands out handles for values so jobs can carry a small Param
// and look the value up when they run.
type Registry[T any] struct {
	mu     sync.Mutex
	next   Handle
	values map[Handle]T
}

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{values: make(map[Handle]T)}
}

func (r *Registry[T]) Register(v T) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.values[r.next] = v
	return r.next
}

func (r *Registry[T]) Lookup(h Handle) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[h]
	return v, ok
}

// Release removes the value and returns it.
func (r *Registry[T]) Release(h Handle) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[h]
	delete(r.values, h)
	return v, ok
}

func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}
