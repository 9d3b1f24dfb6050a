// Package debugui provides immediate-mode GUI inspection windows for pools
// using Dear ImGui. Render the components from inside an active ImGui frame
// (see the ebiten subpackage for a backend wrapper).
package debugui

import "fmt"

// formatPayload renders a payload value for display. Payloads are plain
// value structs, so %+v is enough for inspection purposes.
func formatPayload(data any) string {
	return fmt.Sprintf("%+v", data)
}
