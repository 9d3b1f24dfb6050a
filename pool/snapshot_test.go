package pool_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AyanamiKaine/louds/pool"
	"github.com/stretchr/testify/assert"
)

func snapshotPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	original := pool.New[int32](8)
	a := original.Spawn()
	b := original.Spawn()
	*original.Get(a) = 111
	*original.Get(b) = 222
	original.Destroy(a)

	path := snapshotPath(t, "roundtrip.bin")
	assert.NoError(t, original.SaveToFile(path))

	restored := pool.New[int32](8)
	assert.NoError(t, restored.LoadFromFile(path))

	assert.True(t, restored.IsValid(b))
	assert.Equal(t, int32(222), *restored.Get(b))
	assert.False(t, restored.IsValid(a))
	assert.Equal(t, original.Len(), restored.Len())
}

func TestRoundTripPreservesGenerationsAndFreeOrder(t *testing.T) {
	original := pool.New[int32](8)

	// Churn so generations diverge from 1 and the free stack has history.
	refs := make([]pool.Ref, 0, 8)
	for i := 0; i < 8; i++ {
		refs = append(refs, original.Spawn())
	}
	original.Destroy(refs[2])
	original.Destroy(refs[5])
	kept := original.Spawn() // reuses slot 6, generation 2

	path := snapshotPath(t, "generations.bin")
	assert.NoError(t, original.SaveToFile(path))

	restored := pool.New[int32](8)
	assert.NoError(t, restored.LoadFromFile(path))

	assert.True(t, restored.IsValid(kept))
	assert.False(t, restored.IsValid(refs[2]))
	assert.False(t, restored.IsValid(refs[5]))

	// Spawn order after load must match spawn order after save.
	next := original.Spawn()
	restoredNext := restored.Spawn()
	assert.Equal(t, next, restoredNext)
}

func TestRoundTripPreservesHierarchy(t *testing.T) {
	original := newWorld(16)

	root := spawnKind(original, KindPlayer)
	child := spawnKind(original, KindPickup)
	grandchild := spawnKind(original, KindPickup)
	original.AttachChild(root, child)
	original.AttachChild(child, grandchild)

	path := snapshotPath(t, "hierarchy.bin")
	assert.NoError(t, original.SaveToFile(path))

	restored := newWorld(16)
	assert.NoError(t, restored.LoadFromFile(path))

	assert.Equal(t, root, restored.Parent(child))
	assert.Equal(t, child, restored.Parent(grandchild))
	assert.Equal(t, child, restored.FirstChild(root))

	// The restored hierarchy is live: destroying the root tears down the
	// restored subtree.
	restored.Destroy(root)
	assert.False(t, restored.IsValid(child))
	assert.False(t, restored.IsValid(grandchild))
}

func TestRoundTripKeepsEmbeddedTargetRefs(t *testing.T) {
	original := newWorld(16)

	player := spawnKind(original, KindPlayer)
	projectile := spawnKind(original, KindProjectile)
	original.Get(projectile).Target = player
	original.Destroy(player)

	path := snapshotPath(t, "targets.bin")
	assert.NoError(t, original.SaveToFile(path))

	restored := newWorld(16)
	assert.NoError(t, restored.LoadFromFile(path))

	assert.True(t, restored.IsValid(projectile))
	assert.Equal(t, player, restored.Get(projectile).Target)
	assert.False(t, restored.IsValid(restored.Get(projectile).Target),
		"staleness of embedded refs survives the round trip")
}

func TestLoadCorruptMagicIsTransactional(t *testing.T) {
	source := pool.New[int32](8)
	ref := source.Spawn()
	*source.Get(ref) = 1234

	path := snapshotPath(t, "corrupt.bin")
	assert.NoError(t, source.SaveToFile(path))

	// Flip the first magic byte.
	blob, err := os.ReadFile(path)
	assert.NoError(t, err)
	blob[0] = 'X'
	assert.NoError(t, os.WriteFile(path, blob, 0o644))

	target := pool.New[int32](8)
	keepA := target.Spawn()
	keepB := target.Spawn()
	*target.Get(keepA) = 111
	*target.Get(keepB) = 222
	target.DestroyLater(keepA)

	err = target.LoadFromFile(path)
	assert.ErrorIs(t, err, pool.ErrBadMagic)

	assert.True(t, target.IsValid(keepA))
	assert.True(t, target.IsValid(keepB))
	assert.Equal(t, int32(111), *target.Get(keepA))
	assert.Equal(t, int32(222), *target.Get(keepB))
	assert.Equal(t, 1, target.PendingDestroyCount(), "failed load keeps the deferred queue")

	active := 0
	for range target.All() {
		active++
	}
	assert.Equal(t, 2, active)
}

func TestLoadCapacityMismatch(t *testing.T) {
	source := pool.New[int32](8)
	source.Spawn()

	path := snapshotPath(t, "capacity.bin")
	assert.NoError(t, source.SaveToFile(path))

	target := pool.New[int32](16)
	survivor := target.Spawn()

	err := target.LoadFromFile(path)
	assert.ErrorIs(t, err, pool.ErrCapacityMismatch)
	assert.True(t, target.IsValid(survivor))
}

func TestLoadElementSizeMismatch(t *testing.T) {
	source := pool.New[int32](8)
	source.Spawn()

	path := snapshotPath(t, "elemsize.bin")
	assert.NoError(t, source.SaveToFile(path))

	target := pool.New[int64](8)
	survivor := target.Spawn()

	err := target.LoadFromFile(path)
	assert.ErrorIs(t, err, pool.ErrElemSizeMismatch)
	assert.True(t, target.IsValid(survivor))
}

func TestLoadTruncatedFile(t *testing.T) {
	source := pool.New[int32](8)
	source.Spawn()

	path := snapshotPath(t, "truncated.bin")
	assert.NoError(t, source.SaveToFile(path))

	blob, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.NoError(t, os.WriteFile(path, blob[:len(blob)-7], 0o644))

	target := pool.New[int32](8)
	survivor := target.Spawn()

	err = target.LoadFromFile(path)
	assert.ErrorIs(t, err, pool.ErrSnapshotSize)
	assert.True(t, target.IsValid(survivor))
	assert.Equal(t, 1, target.Len())
}

func TestLoadTinyFile(t *testing.T) {
	path := snapshotPath(t, "tiny.bin")
	assert.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o644))

	target := pool.New[int32](8)
	err := target.LoadFromFile(path)
	assert.ErrorIs(t, err, pool.ErrSnapshotSize)
}

func TestLoadMissingFile(t *testing.T) {
	target := pool.New[int32](8)
	before := target.Spawn()

	err := target.LoadFromFile(snapshotPath(t, "does-not-exist.bin"))
	assert.Error(t, err)
	assert.True(t, target.IsValid(before))
}

func TestSaveToUnwritablePath(t *testing.T) {
	p := pool.New[int32](4)
	p.Spawn()

	err := p.SaveToFile(filepath.Join(t.TempDir(), "missing-dir", "pool.bin"))
	assert.Error(t, err)
}

func TestLoadClearsPendingQueue(t *testing.T) {
	source := pool.New[int32](8)
	ref := source.Spawn()
	*source.Get(ref) = 777

	path := snapshotPath(t, "clear-queue.bin")
	assert.NoError(t, source.SaveToFile(path))

	target := pool.New[int32](8)
	queued := target.Spawn()
	*target.Get(queued) = 111
	assert.True(t, target.DestroyLater(queued))
	assert.Equal(t, 1, target.PendingDestroyCount())

	assert.NoError(t, target.LoadFromFile(path))
	assert.Equal(t, 0, target.PendingDestroyCount())
	assert.Equal(t, 0, target.FlushDestroyLater())

	assert.True(t, target.IsValid(ref))
	assert.Equal(t, int32(777), *target.Get(ref))
}

func TestLoadRejectsCorruptFreeStack(t *testing.T) {
	source := pool.New[int32](4)
	source.Spawn()

	path := snapshotPath(t, "freestack.bin")
	assert.NoError(t, source.SaveToFile(path))

	blob, err := os.ReadFile(path)
	assert.NoError(t, err)
	// First free entry lives right after the 16-byte header and the
	// 4-byte count; point it outside [1, capacity].
	blob[20] = 0xFF
	assert.NoError(t, os.WriteFile(path, blob, 0o644))

	target := pool.New[int32](4)
	err = target.LoadFromFile(path)
	assert.ErrorIs(t, err, pool.ErrCorruptFreeStack)
}

func TestLoadedPoolSentinelStaysDead(t *testing.T) {
	source := pool.New[int32](4)
	source.Spawn()

	path := snapshotPath(t, "sentinel.bin")
	assert.NoError(t, source.SaveToFile(path))

	target := pool.New[int32](4)
	assert.NoError(t, target.LoadFromFile(path))

	assert.False(t, target.IsValid(pool.NilRef))
	assert.False(t, target.IsValid(pool.Ref{Index: 0, Generation: 1}))
}
