// Package registry provides the ordered label-to-component mapping shared by
// the plot composers.
package registry

import (
	"errors"
	"fmt"
	"iter"
)

// ErrDuplicateLabel is returned when a label is registered twice.
var ErrDuplicateLabel = errors.New("duplicate component label")

// Registry maps labels to values and remembers insertion order. Insertion
// order is the order in which composers draw and stack their components.
type Registry[T any] struct {
	order []string
	items map[string]T
}

// New returns an empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{items: make(map[string]T)}
}

// Add appends v under label. The registry is unchanged when an error is
// returned.
func (r *Registry[T]) Add(label string, v T) error {
	if r.items == nil {
		r.items = make(map[string]T)
	}
	if _, ok := r.items[label]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateLabel, label)
	}
	r.order = append(r.order, label)
	r.items[label] = v
	return nil
}

// Has reports whether label is registered.
func (r *Registry[T]) Has(label string) bool {
	_, ok := r.items[label]
	return ok
}

// Get returns the value registered under label.
func (r *Registry[T]) Get(label string) (T, bool) {
	v, ok := r.items[label]
	return v, ok
}

// Len returns the number of registered values.
func (r *Registry[T]) Len() int { return len(r.order) }

// Labels returns a copy of the labels in insertion order.
func (r *Registry[T]) Labels() []string {
	return append([]string(nil), r.order...)
}

// All iterates over the registry in insertion order.
func (r *Registry[T]) All() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for _, label := range r.order {
			if !yield(label, r.items[label]) {
				return
			}
		}
	}
}

// Values returns the registered values in insertion order.
func (r *Registry[T]) Values() []T {
	out := make([]T, 0, len(r.order))
	for _, label := range r.order {
		out = append(out, r.items[label])
	}
	return out
}
