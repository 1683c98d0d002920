package types

import (
	"sync"
	"sync/atomic"
)

// TypeReference is a handle on a type that either exists already or is
// produced on first use. It is what lets a parent type be constructed while
// its children are still unmaterialized, which in turn is what terminates
// the eager walk over cyclic schema graphs.
type TypeReference struct {
	once     sync.Once
	resolved atomic.Bool
	factory  func() (Type, error)

	typ Type
	err error
}

// Resolved wraps an already-materialized type.
func Resolved(t Type) *TypeReference {
	r := &TypeReference{typ: t}
	r.resolved.Store(true)
	return r
}

// Deferred wraps a factory that is invoked on first Resolve. The factory
// must be idempotent and free of side effects; it runs exactly once even
// under concurrent first dereferences, and every caller observes the same
// outcome.
func Deferred(factory func() (Type, error)) *TypeReference {
	return &TypeReference{factory: factory}
}

// Resolve returns the referenced type, realizing it on first call. The
// outcome, success or failure, is fixed after the first call.
func (r *TypeReference) Resolve() (Type, error) {
	r.once.Do(func() {
		if r.factory != nil {
			r.typ, r.err = r.factory()
			r.factory = nil
		}
		r.resolved.Store(true)
	})
	return r.typ, r.err
}

// Peek returns the type if this reference has already been realized
// successfully, without forcing resolution.
func (r *TypeReference) Peek() (Type, bool) {
	if r.resolved.Load() && r.err == nil && r.typ != nil {
		return r.typ, true
	}
	return nil, false
}
