package pool

import "fmt"

// Ref identifies a pool slot together with the generation at which it was
// last alive. Refs are small value types; callers may store them inside
// payloads (for example a projectile's target) and test them later with
// Pool.IsValid, even after the slot has been recycled.
type Ref struct {
	Index      uint32
	Generation uint32
}

// NilRef is the reserved "no entity" handle. It is never valid and also
// terminates hierarchy link chains.
var NilRef = Ref{}

// IsNil reports whether the ref is NilRef.
func (r Ref) IsNil() bool {
	return r.Index == 0 && r.Generation == 0
}

// String renders the ref for debugging purposes.
func (r Ref) String() string {
	if r.IsNil() {
		return "Ref(nil)"
	}
	return fmt.Sprintf("Ref(%d:%d)", r.Index, r.Generation)
}

// Pack encodes the ref into a single uint64 key, index in the upper half.
// Used by caches that key on refs.
func (r Ref) Pack() uint64 {
	return uint64(r.Index)<<32 | uint64(r.Generation)
}

// Unpack rebuilds a ref from its packed form.
func Unpack(key uint64) Ref {
	return Ref{Index: uint32(key >> 32), Generation: uint32(key)}
}
