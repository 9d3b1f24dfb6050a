package pool

// PoolStats is a point-in-time summary of pool occupancy, consumed by the
// debug UI and the stress reporter.
type PoolStats struct {
	Capacity int
	Alive    int
	Free     int
	Pending  int
	Roots    int
	Version  uint64
}

// CollectStats gathers occupancy counters. Roots counts alive slots with
// no parent, i.e. the tops of the hierarchy forest.
func (p *Pool[T]) CollectStats() PoolStats {
	roots := 0
	for i := 1; i < len(p.nodes); i++ {
		n := &p.nodes[i]
		if n.alive && n.parent.IsNil() {
			roots++
		}
	}
	return PoolStats{
		Capacity: p.Cap(),
		Alive:    p.Len(),
		Free:     len(p.free),
		Pending:  len(p.pending),
		Roots:    roots,
		Version:  p.version,
	}
}
