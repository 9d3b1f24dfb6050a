package pool

import (
	"iter"
	"unsafe"
)

// Kind is a caller-defined discriminator stored inside each payload. It is
// what ForKind and KindQuery dispatch on.
type Kind uint8

// firstByteKind is the default kind extractor: by convention the first
// payload byte is the kind. Zero-size payloads always report kind 0.
func firstByteKind[T any]() func(*T) Kind {
	var zero T
	if unsafe.Sizeof(zero) == 0 {
		return func(*T) Kind { return 0 }
	}
	return func(data *T) Kind {
		return *(*Kind)(unsafe.Pointer(data))
	}
}

// All iterates every alive slot exactly once in ascending index order,
// yielding the handle and a mutable payload pointer. Spawning or
// destroying during iteration invalidates the iterator; destroy-during-
// iterate must go through DestroyLater.
func (p *Pool[T]) All() iter.Seq2[Ref, *T] {
	return func(yield func(Ref, *T) bool) {
		for i := 1; i < len(p.nodes); i++ {
			n := &p.nodes[i]
			if !n.alive {
				continue
			}
			if !yield(Ref{Index: uint32(i), Generation: n.generation}, &n.data) {
				return
			}
		}
	}
}

// ForKind invokes fn for every alive slot whose extracted kind equals k,
// skipping the rest. It never mutates structure itself; fn may mutate the
// payload but must defer structural changes.
func (p *Pool[T]) ForKind(k Kind, fn func(Ref, *T)) {
	for i := 1; i < len(p.nodes); i++ {
		n := &p.nodes[i]
		if !n.alive || p.kindOf(&n.data) != k {
			continue
		}
		fn(Ref{Index: uint32(i), Generation: n.generation}, &n.data)
	}
}

// KindOf applies the pool's kind extractor to the payload behind r.
// The handle must be valid.
func (p *Pool[T]) KindOf(r Ref) Kind {
	return p.kindOf(&p.nodes[r.Index].data)
}
