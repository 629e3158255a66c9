// Package lazy provides the at-most-once, safe-concurrent-first-use,
// failure-reported-not-panicked initialization primitive spec.md §9 asks
// for (process-wide HTTPS client, hosting token, document-store handle).
// A thin generic wrapper over sync.Once — the idiomatic Go shape for the
// source's lazy-static pattern.
package lazy

import "sync"

// Value lazily initializes a T on first Get, then returns the cached
// value (or cached error) on every subsequent call.
type Value[T any] struct {
	once sync.Once
	val  T
	err  error
	init func() (T, error)
}

// New wraps init so it runs at most once, even under concurrent first use.
func New[T any](init func() (T, error)) *Value[T] {
	return &Value[T]{init: init}
}

// Get runs init on the first call and caches the result (success or
// failure) for all callers, including concurrent ones blocked on the
// first call.
func (v *Value[T]) Get() (T, error) {
	v.once.Do(func() {
		v.val, v.err = v.init()
	})
	return v.val, v.err
}
