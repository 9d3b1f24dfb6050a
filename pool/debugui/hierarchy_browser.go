package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/kamstrup/intmap"

	"github.com/AyanamiKaine/louds/pool"
)

func NewHierarchyBrowserComponent[T any]() HierarchyBrowserComponent[T] {
	return HierarchyBrowserComponent[T]{
		cache: &hierarchyCache{
			subtreeSizes: intmap.New[uint64, int32](256),
		},
	}
}

// Render draws the hierarchy forest of the pool as a tree view: every
// parentless alive slot is a root, children nest underneath. Selecting a
// node shows its payload below the tree.
func (hb *HierarchyBrowserComponent[T]) Render(p *pool.Pool[T]) {
	if !imgui.BeginV("Hierarchy Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	hb.rebuildCacheIfNeeded(p)

	if imgui.Button("Clear Selection") {
		hb.selectedRef = pool.NilRef
	}
	imgui.SameLine()
	imgui.Text(fmt.Sprintf("%d roots, %d alive", len(hb.cache.roots), p.Len()))
	imgui.Separator()

	for _, root := range hb.cache.roots {
		hb.renderNode(p, root)
	}

	imgui.Separator()
	if p.IsValid(hb.selectedRef) {
		imgui.Text(fmt.Sprintf("Selected: %s kind=%d", hb.selectedRef, p.KindOf(hb.selectedRef)))
		imgui.TextWrapped(formatPayload(*p.Get(hb.selectedRef)))
	} else {
		imgui.Text("Nothing selected")
	}

	imgui.End()
}

func (hb *HierarchyBrowserComponent[T]) renderNode(p *pool.Pool[T], ref pool.Ref) {
	size, _ := hb.cache.subtreeSizes.Get(ref.Pack())
	label := fmt.Sprintf("%s kind=%d subtree=%d###%d", ref, p.KindOf(ref), size, ref.Pack())

	flags := imgui.TreeNodeFlagsOpenOnArrow
	if hb.selectedRef == ref {
		flags |= imgui.TreeNodeFlagsSelected
	}
	if p.FirstChild(ref).IsNil() {
		flags |= imgui.TreeNodeFlagsLeaf
	}

	open := imgui.TreeNodeExStrV(label, flags)
	if imgui.IsItemClicked() {
		hb.selectedRef = ref
	}
	if open {
		for child := range p.Children(ref) {
			hb.renderNode(p, child)
		}
		imgui.TreePop()
	}
}

// rebuildCacheIfNeeded recomputes the root list and per-node subtree sizes
// whenever the pool's structural version moved.
func (hb *HierarchyBrowserComponent[T]) rebuildCacheIfNeeded(p *pool.Pool[T]) {
	if hb.cache.valid && hb.cache.lastVersion == p.Version() {
		return
	}

	hb.cache.roots = hb.cache.roots[:0]
	hb.cache.subtreeSizes.Clear()

	for ref := range p.All() {
		if p.Parent(ref).IsNil() {
			hb.cache.roots = append(hb.cache.roots, ref)
			hb.measureSubtree(p, ref)
		}
	}

	hb.cache.lastVersion = p.Version()
	hb.cache.valid = true
}

func (hb *HierarchyBrowserComponent[T]) measureSubtree(p *pool.Pool[T], ref pool.Ref) int32 {
	size := int32(1)
	for child := range p.Children(ref) {
		size += hb.measureSubtree(p, child)
	}
	hb.cache.subtreeSizes.Put(ref.Pack(), size)
	return size
}

// GetSelectedRef returns the currently selected handle, NilRef if none.
func (hb *HierarchyBrowserComponent[T]) GetSelectedRef() pool.Ref {
	return hb.selectedRef
}
