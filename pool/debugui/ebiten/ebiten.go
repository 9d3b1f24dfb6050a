// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// Use this to render the debugui inspection windows inside an Ebiten game
// loop.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// NewImguiBackend creates the backend. Call BeginFrame/EndFrame around the
// debugui component Render calls from the game's Update method, and the
// backend's Draw from the game's Draw method.
func NewImguiBackend() *ImguiBackend {
	return &ImguiBackend{
		EbitenBackend: ebitenbackend.NewEbitenBackend(),
	}
}
