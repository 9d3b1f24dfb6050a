package debugui

import (
	"github.com/kamstrup/intmap"

	"github.com/AyanamiKaine/louds/pool"
)

type HierarchyBrowserComponent[T any] struct {
	cache       *hierarchyCache
	selectedRef pool.Ref
}

type hierarchyCache struct {
	roots        []pool.Ref
	subtreeSizes *intmap.Map[uint64, int32]
	lastVersion  uint64
	valid        bool
}

type PendingDestroyComponent[T any] struct{}

type PoolStatsComponent[T any] struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}
