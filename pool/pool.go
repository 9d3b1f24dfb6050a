package pool

import (
	"reflect"
	"unsafe"

	"go.uber.org/zap"
)

// node is one slot of the backing array. The hierarchy links are part of
// the slot so they travel with snapshots for free.
type node[T any] struct {
	generation  uint32
	alive       bool
	parent      Ref
	firstChild  Ref
	nextSibling Ref
	data        T
}

// Pool is a fixed-capacity generational object pool. Slot 0 is a reserved
// sentinel that is never handed out, which aligns NilRef's index with
// "no slot" and lets hierarchy links use NilRef as their terminator.
//
// The pool is single-threaded by design: it is meant to back a
// frame-stepped simulation where the caller flushes deferred destroys at
// well-defined safe points.
type Pool[T any] struct {
	nodes   []node[T] // capacity+1 entries, index 0 is the sentinel
	free    []uint32  // LIFO stack of unused slot indices
	pending []Ref     // deferred-destroy queue, bounded to capacity
	version uint64    // bumped on every structural mutation
	kindOf  func(*T) Kind
	log     *zap.Logger
}

// Option customizes pool construction.
type Option[T any] func(*Pool[T])

// WithLogger routes pool diagnostics (snapshot failures) to the given
// logger instead of discarding them.
func WithLogger[T any](log *zap.Logger) Option[T] {
	return func(p *Pool[T]) {
		p.log = log
	}
}

// WithKindFunc overrides the default first-payload-byte kind extractor
// used by ForKind and KindQuery.
func WithKindFunc[T any](kindOf func(*T) Kind) Option[T] {
	return func(p *Pool[T]) {
		p.kindOf = kindOf
	}
}

// New creates a pool holding at most capacity payloads of type T.
//
// T must be a fixed-size value type: structs, arrays and numeric types are
// fine, anything containing Go pointers, maps, slices, strings, channels
// or funcs is rejected because payload bytes are written verbatim into
// snapshots. Refs embedded in T are plain integers and are fine.
func New[T any](capacity int, opts ...Option[T]) *Pool[T] {
	if capacity <= 0 {
		panic("pool: capacity must be positive")
	}
	var zero T
	if containsIndirection(reflect.TypeOf(&zero).Elem()) {
		panic("pool: payload type must not contain pointers, maps, slices, strings, channels or funcs")
	}

	p := &Pool[T]{
		nodes:   make([]node[T], capacity+1),
		free:    make([]uint32, 0, capacity),
		pending: make([]Ref, 0, capacity),
		log:     zap.NewNop(),
	}
	p.kindOf = firstByteKind[T]()

	// Stack is filled N..1 so the first spawn pops index 1.
	for i := capacity; i >= 1; i-- {
		p.free = append(p.free, uint32(i))
	}

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// containsIndirection walks a payload type looking for anything that would
// make its bytes meaningless in a snapshot.
func containsIndirection(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.UnsafePointer, reflect.Map, reflect.Slice,
		reflect.String, reflect.Chan, reflect.Func, reflect.Interface:
		return true
	case reflect.Array:
		return containsIndirection(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if containsIndirection(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}

// Spawn takes a slot off the free stack and returns a handle to it. The
// payload starts zeroed and all hierarchy links start nil. Returns NilRef
// when the pool is full; that is a normal signalled condition, not an
// error.
func (p *Pool[T]) Spawn() Ref {
	if len(p.free) == 0 {
		return NilRef
	}
	idx := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]

	n := &p.nodes[idx]
	n.generation++
	n.alive = true
	n.parent = NilRef
	n.firstChild = NilRef
	n.nextSibling = NilRef
	var zero T
	n.data = zero

	p.version++
	return Ref{Index: idx, Generation: n.generation}
}

// Destroy frees the slot behind r after recursively destroying every
// transitive descendant. Invalid (stale, nil, already-destroyed) handles
// are a silent no-op. The slot's generation is bumped on the next Spawn
// into it, which is what invalidates any handle still pointing at it.
func (p *Pool[T]) Destroy(r Ref) {
	if !p.IsValid(r) {
		return
	}
	p.destroySlot(r.Index)
}

// destroySlot tears down a known-alive slot: descendants first, then the
// edge to the parent, then the slot itself.
func (p *Pool[T]) destroySlot(idx uint32) {
	n := &p.nodes[idx]

	child := n.firstChild
	for !child.IsNil() {
		next := p.nodes[child.Index].nextSibling
		p.destroySlot(child.Index)
		child = next
	}

	p.unlinkFromParent(idx)

	n.alive = false
	n.firstChild = NilRef
	n.nextSibling = NilRef
	p.free = append(p.free, idx)
	p.version++
}

// IsValid reports whether r addresses a currently-alive slot at the same
// generation. NilRef is never valid.
func (p *Pool[T]) IsValid(r Ref) bool {
	if r.Index == 0 || int(r.Index) >= len(p.nodes) {
		return false
	}
	n := &p.nodes[r.Index]
	return n.alive && n.generation == r.Generation
}

// Get returns the payload behind r without any validity gate. Calling it
// with an invalid handle is a programmer error with undefined results;
// gate with IsValid first.
func (p *Pool[T]) Get(r Ref) *T {
	return &p.nodes[r.Index].data
}

// Len returns the number of currently-alive slots.
func (p *Pool[T]) Len() int {
	return cap(p.free) - len(p.free)
}

// Cap returns the fixed capacity the pool was constructed with.
func (p *Pool[T]) Cap() int {
	return cap(p.free)
}

// Version returns a counter that changes on every structural mutation
// (spawn, destroy, attach, detach, load). Cached queries and debug views use it to decide
// when to rebuild.
func (p *Pool[T]) Version() uint64 {
	return p.version
}

// payloadSize returns the in-memory size of one payload record.
func payloadSize[T any]() uint32 {
	var zero T
	return uint32(unsafe.Sizeof(zero))
}
