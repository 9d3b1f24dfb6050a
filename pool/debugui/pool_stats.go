package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/AyanamiKaine/louds/pool"
)

func NewPoolStatsComponent[T any](historyFrames int) PoolStatsComponent[T] {
	return PoolStatsComponent[T]{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
		frameIndex:    0,
	}
}

func (ps *PoolStatsComponent[T]) Render(p *pool.Pool[T], deltaTime float32) {
	if !imgui.BeginV("Pool Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames

	stats := p.CollectStats()

	imgui.Text(fmt.Sprintf("Alive: %d / %d", stats.Alive, stats.Capacity))
	imgui.Text(fmt.Sprintf("Free Slots: %d", stats.Free))
	imgui.Text(fmt.Sprintf("Pending Destroys: %d", stats.Pending))
	imgui.Text(fmt.Sprintf("Hierarchy Roots: %d", stats.Roots))
	imgui.Text(fmt.Sprintf("Structure Version: %d", stats.Version))

	var avgFrameTime float32
	for _, ft := range ps.frameHistory {
		avgFrameTime += ft
	}
	avgFrameTime /= float32(ps.historyFrames)

	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	imgui.End()
}
