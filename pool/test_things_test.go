package pool_test

import "github.com/AyanamiKaine/louds/pool"

// Common test payload types. Thing keeps its kind in the first byte so the
// default extractor applies.

const (
	KindNone pool.Kind = iota
	KindPlayer
	KindEnemy
	KindProjectile
	KindPickup
)

type Thing struct {
	Kind   pool.Kind
	Health int32
	PX, PY float32
	VX, VY float32
	Target pool.Ref
}

func newWorld(capacity int) *pool.Pool[Thing] {
	return pool.New[Thing](capacity)
}

// spawnKind spawns a Thing of the given kind, failing the caller's
// expectations loudly if the pool is full.
func spawnKind(p *pool.Pool[Thing], k pool.Kind) pool.Ref {
	r := p.Spawn()
	if r.IsNil() {
		panic("test pool unexpectedly full")
	}
	p.Get(r).Kind = k
	return r
}
