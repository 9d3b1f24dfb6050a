package pool

import "iter"

// The deferred-destroy queue buffers destruction requests made while the
// caller is iterating the pool, the same way a command buffer defers
// structural changes until the end of a frame. The queue is list-shaped on
// purpose: appends are O(1), duplicates are kept, and the generation check
// at flush time makes duplicate and stale entries harmless.

// DestroyLater appends r to the deferred-destroy queue without validating
// it. Returns false iff the queue is full, in which case the queue is
// unchanged. Stale handles and duplicates are permitted; they are filtered
// at flush time.
func (p *Pool[T]) DestroyLater(r Ref) bool {
	if len(p.pending) == cap(p.pending) {
		return false
	}
	p.pending = append(p.pending, r)
	return true
}

// PendingDestroyCount returns the number of queued entries, duplicates
// included.
func (p *Pool[T]) PendingDestroyCount() int {
	return len(p.pending)
}

// PendingDestroys iterates the queued handles in insertion order without
// draining them. Entries may be stale; validity is only decided at flush.
func (p *Pool[T]) PendingDestroys() iter.Seq[Ref] {
	return func(yield func(Ref) bool) {
		for _, r := range p.pending {
			if !yield(r) {
				return
			}
		}
	}
}

// QueueDestroyIf scans the active slots in index order and queues every
// one the predicate accepts, subject to queue capacity. It returns the
// number of entries actually queued. The predicate receives the payload
// for inspection only and must not mutate it or the pool.
func (p *Pool[T]) QueueDestroyIf(pred func(Ref, *T) bool) int {
	queued := 0
	for i := 1; i < len(p.nodes); i++ {
		n := &p.nodes[i]
		if !n.alive {
			continue
		}
		r := Ref{Index: uint32(i), Generation: n.generation}
		if !pred(r, &n.data) {
			continue
		}
		if !p.DestroyLater(r) {
			break
		}
		queued++
	}
	return queued
}

// FlushDestroyLater drains the queue in insertion order, destroying every
// entry that is still valid and skipping the rest. It returns the number
// of handles actually destroyed, which can be less than the number queued:
// a duplicate's first visit destroys the slot, so the second visit fails
// the generation check, and a handle whose slot was recycled since queuing
// cannot touch the replacement. The queue is empty afterwards.
func (p *Pool[T]) FlushDestroyLater() int {
	destroyed := 0
	for i := 0; i < len(p.pending); i++ {
		r := p.pending[i]
		if !p.IsValid(r) {
			continue
		}
		p.destroySlot(r.Index)
		destroyed++
	}
	p.pending = p.pending[:0]
	return destroyed
}
