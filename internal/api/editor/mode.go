package editor

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-waypoint/internal/humastar"
	"github.com/joeblew999/plat-waypoint/internal/waypoint"
)

// ToolbarButton holds data for rendering one mode toggle.
type ToolbarButton struct {
	Mode   string
	Label  string
	Icon   string
	Color  string
	Href   string
	Active bool
}

type buttonDef struct {
	mode        waypoint.Mode
	label       string
	activeLabel string
	icon        string
	color       string
}

var buttonDefs = []buttonDef{
	{waypoint.Adding, "Add Waypoint", "Cancel Adding Waypoint", "+", "blue"},
	{waypoint.Editing, "Edit Waypoints", "Stop Editing", "✎", "green"},
	{waypoint.Deleting, "Delete Waypoints", "Cancel Delete Mode", "🗑", "yellow"},
}

// Toolbar returns the three mode buttons of session id for the current mode.
func Toolbar(id string, mode waypoint.Mode) []ToolbarButton {
	buttons := make([]ToolbarButton, len(buttonDefs))
	for i, d := range buttonDefs {
		b := ToolbarButton{
			Mode:   d.mode.String(),
			Label:  d.label,
			Icon:   d.icon,
			Color:  d.color,
			Href:   APIBase(id) + "/mode/" + d.mode.String(),
			Active: mode == d.mode,
		}
		if b.Active {
			b.Label = d.activeLabel
		}
		buttons[i] = b
	}
	return buttons
}

// ModeInput selects the mode to toggle.
type ModeInput struct {
	SessionInput
	Mode string `path:"mode" enum:"adding,editing,deleting" doc:"Mode to toggle on or off"`
}

// ToggleMode flips one mode and re-renders the toolbar. Marker
// interactivity follows through the session's map stream.
func (h *Handler) ToggleMode(ctx context.Context, input *ModeInput) (*huma.StreamResponse, error) {
	s, err := h.lookup(input.Session)
	if err != nil {
		return nil, err
	}
	target, err := waypoint.ParseMode(input.Mode)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	var mode waypoint.Mode
	s.Do(func() { mode = s.Store().ToggleMode(target) })
	h.log.Debug().Str("session", s.ID).Stringer("mode", mode).Msg("mode toggled")

	return h.Stream(func(sse humastar.SSE) {
		html, err := h.Renderer.Render("toolbar", Toolbar(s.ID, mode))
		if err != nil {
			sse.Error(err.Error())
			return
		}
		sse.Patch(html, "#toolbar")
		sse.Signals(map[string]any{"mode": mode.String()})
	}), nil
}
