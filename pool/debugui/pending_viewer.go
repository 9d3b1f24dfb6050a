package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/AyanamiKaine/louds/pool"
)

func NewPendingDestroyComponent[T any]() PendingDestroyComponent[T] {
	return PendingDestroyComponent[T]{}
}

// Render draws the deferred-destroy queue in insertion order. Stale
// entries are shown too; they will be skipped at flush time.
func (pd *PendingDestroyComponent[T]) Render(p *pool.Pool[T]) {
	if !imgui.BeginV("Pending Destroys", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Queued: %d / %d", p.PendingDestroyCount(), p.Cap()))
	imgui.Separator()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("PendingTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("#")
		imgui.TableSetupColumn("Ref")
		imgui.TableSetupColumn("State")
		imgui.TableHeadersRow()

		i := 0
		for ref := range p.PendingDestroys() {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", i))

			imgui.TableNextColumn()
			imgui.Text(ref.String())

			imgui.TableNextColumn()
			if p.IsValid(ref) {
				imgui.Text("valid")
			} else {
				imgui.Text("stale")
			}
			i++
		}

		imgui.EndTable()
	}

	imgui.End()
}
