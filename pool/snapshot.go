package pool

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"unsafe"

	"go.uber.org/zap"
)

// A snapshot is a single contiguous binary blob in native byte order:
// header, then the free-stack region, then the raw slot array. Payload
// bytes are written verbatim, so snapshots are only meaningful on the
// architecture and payload layout that produced them.

// snapshotMagic marks the very first bytes of every pool snapshot.
var snapshotMagic = [8]byte{'L', 'O', 'U', 'D', 'S', 'P', 'L', '1'}

// snapshotHeader is the fixed 16-byte file header. Field order is the wire
// order; encoding/binary writes it without padding.
type snapshotHeader struct {
	Magic    [8]byte
	Capacity uint32
	ElemSize uint32
}

// Snapshot load failure classes. LoadFromFile wraps these so callers can
// errors.Is against them.
var (
	ErrBadMagic         = errors.New("pool: snapshot magic mismatch")
	ErrCapacityMismatch = errors.New("pool: snapshot capacity mismatch")
	ErrElemSizeMismatch = errors.New("pool: snapshot element size mismatch")
	ErrSnapshotSize     = errors.New("pool: snapshot truncated or oversized")
	ErrCorruptFreeStack = errors.New("pool: snapshot free stack corrupt")
)

const headerSize = 16

// snapshotSize returns the exact byte length of a snapshot of this pool.
func (p *Pool[T]) snapshotSize() int {
	capacity := p.Cap()
	nodeSize := int(unsafe.Sizeof(p.nodes[0]))
	return headerSize + 4 + 4*capacity + (capacity+1)*nodeSize
}

// nodeBytes views the slot array as raw bytes. The node struct carries no
// Go pointers (New rejects pointerful payloads), so the bytes round-trip
// exactly on the same architecture.
func nodeBytes[T any](nodes []node[T]) []byte {
	size := len(nodes) * int(unsafe.Sizeof(nodes[0]))
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(nodes))), size)
}

// SaveToFile writes the whole pool as one snapshot blob. The deferred
// queue is transient frame state and is not part of the snapshot.
func (p *Pool[T]) SaveToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		p.log.Error("pool: snapshot create failed",
			zap.String("path", path), zap.Error(err))
		return err
	}

	err = p.writeSnapshot(bufio.NewWriter(f))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		p.log.Error("pool: snapshot write failed",
			zap.String("path", path), zap.Error(err))
		return err
	}
	return nil
}

func (p *Pool[T]) writeSnapshot(w *bufio.Writer) error {
	hdr := snapshotHeader{
		Magic:    snapshotMagic,
		Capacity: uint32(p.Cap()),
		ElemSize: payloadSize[T](),
	}
	if err := binary.Write(w, binary.NativeEndian, hdr); err != nil {
		return err
	}

	// Fixed-size free region: count, then exactly capacity entries.
	if err := binary.Write(w, binary.NativeEndian, uint32(len(p.free))); err != nil {
		return err
	}
	freeRegion := make([]uint32, p.Cap())
	copy(freeRegion, p.free)
	if err := binary.Write(w, binary.NativeEndian, freeRegion); err != nil {
		return err
	}

	if _, err := w.Write(nodeBytes(p.nodes)); err != nil {
		return err
	}
	return w.Flush()
}

// LoadFromFile replaces the pool's contents with a previously saved
// snapshot. The load is transactional: the blob is read and validated into
// staging storage first, and on any failure (open error, short read, bad
// magic, capacity or element-size mismatch) the pool — alive set,
// payloads, free stack and deferred queue included — is left exactly as it
// was. On success the deferred queue is cleared, because pending destroys
// refer to entities of the pre-load world.
func (p *Pool[T]) LoadFromFile(path string) error {
	blob, err := os.ReadFile(path)
	if err != nil {
		p.log.Error("pool: snapshot open failed",
			zap.String("path", path), zap.Error(err))
		return err
	}

	nodes, free, err := p.decodeSnapshot(blob)
	if err != nil {
		p.log.Error("pool: snapshot rejected",
			zap.String("path", path), zap.Error(err))
		return err
	}

	p.nodes = nodes
	p.free = free
	p.pending = p.pending[:0]
	p.version++
	return nil
}

// decodeSnapshot validates blob and stages the new slot array and free
// stack without touching the live pool.
func (p *Pool[T]) decodeSnapshot(blob []byte) ([]node[T], []uint32, error) {
	r := bytes.NewReader(blob)

	var hdr snapshotHeader
	if err := binary.Read(r, binary.NativeEndian, &hdr); err != nil {
		return nil, nil, fmt.Errorf("%w: %d byte file", ErrSnapshotSize, len(blob))
	}
	if hdr.Magic != snapshotMagic {
		return nil, nil, fmt.Errorf("%w: got % x", ErrBadMagic, hdr.Magic)
	}
	capacity := p.Cap()
	if hdr.Capacity != uint32(capacity) {
		return nil, nil, fmt.Errorf("%w: snapshot %d, pool %d",
			ErrCapacityMismatch, hdr.Capacity, capacity)
	}
	if hdr.ElemSize != payloadSize[T]() {
		return nil, nil, fmt.Errorf("%w: snapshot %d, pool %d",
			ErrElemSizeMismatch, hdr.ElemSize, payloadSize[T]())
	}
	if len(blob) != p.snapshotSize() {
		return nil, nil, fmt.Errorf("%w: got %d bytes, want %d",
			ErrSnapshotSize, len(blob), p.snapshotSize())
	}

	var count uint32
	if err := binary.Read(r, binary.NativeEndian, &count); err != nil {
		return nil, nil, fmt.Errorf("%w: free count unreadable", ErrCorruptFreeStack)
	}
	if int(count) > capacity {
		return nil, nil, fmt.Errorf("%w: count %d exceeds capacity %d",
			ErrCorruptFreeStack, count, capacity)
	}
	freeRegion := make([]uint32, capacity)
	if err := binary.Read(r, binary.NativeEndian, freeRegion); err != nil {
		return nil, nil, fmt.Errorf("%w: region unreadable", ErrCorruptFreeStack)
	}

	free := make([]uint32, 0, capacity)
	seen := make([]bool, capacity+1)
	for _, idx := range freeRegion[:count] {
		if idx < 1 || int(idx) > capacity || seen[idx] {
			return nil, nil, fmt.Errorf("%w: bad index %d", ErrCorruptFreeStack, idx)
		}
		seen[idx] = true
		free = append(free, idx)
	}

	nodes := make([]node[T], capacity+1)
	copy(nodeBytes(nodes), blob[headerSize+4+4*capacity:])

	// Slot 0 is permanently dead regardless of what the file says.
	nodes[0] = node[T]{}

	return nodes, free, nil
}
