package pool

import "iter"

// KindQuery caches the refs of one kind and rebuilds the cache only when
// the pool's structural version changes. Repeated iteration within a frame
// then costs a slice walk instead of a full pool scan.
//
// Declare the query as a struct field with Kind set and let the Scheduler
// initialize it during Register, or call Init yourself.
type KindQuery[T any] struct {
	Kind Kind

	pool        *Pool[T]
	refs        []Ref
	lastVersion uint64
	cacheValid  bool
}

// NewKindQuery creates an initialized query over p.
func NewKindQuery[T any](p *Pool[T], k Kind) *KindQuery[T] {
	q := &KindQuery[T]{Kind: k}
	q.Init(p)
	return q
}

// Init attaches the query to a pool and drops any cached state. Called by
// the Scheduler during system registration.
func (q *KindQuery[T]) Init(p *Pool[T]) {
	q.pool = p
	q.refs = nil
	q.cacheValid = false
}

func (q *KindQuery[T]) rebuildIfStale() {
	if q.cacheValid && q.lastVersion == q.pool.Version() {
		return
	}
	q.refs = q.refs[:0]
	q.pool.ForKind(q.Kind, func(r Ref, _ *T) {
		q.refs = append(q.refs, r)
	})
	q.lastVersion = q.pool.Version()
	q.cacheValid = true
}

// Refs returns the cached handles of the query's kind. The slice is owned
// by the query and only valid until the next structural mutation.
func (q *KindQuery[T]) Refs() []Ref {
	q.rebuildIfStale()
	return q.refs
}

// Count returns the number of alive slots matching the kind.
func (q *KindQuery[T]) Count() int {
	q.rebuildIfStale()
	return len(q.refs)
}

// Iter yields the handle and payload of every match. Payload mutation is
// fine; structural mutation during iteration is not — queue it on the
// pool's deferred queue instead.
func (q *KindQuery[T]) Iter() iter.Seq2[Ref, *T] {
	q.rebuildIfStale()
	refs := q.refs
	return func(yield func(Ref, *T) bool) {
		for _, r := range refs {
			if !yield(r, q.pool.Get(r)) {
				return
			}
		}
	}
}
