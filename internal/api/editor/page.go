package editor

import (
	"encoding/json"

	"github.com/joeblew999/plat-waypoint/internal/session"
	"github.com/joeblew999/plat-waypoint/internal/waypoint"
)

// PageData holds everything the editor page template needs.
type PageData struct {
	Signals   string
	APIBase   string
	StreamURL string
	Toolbar   []ToolbarButton
	Waypoints []waypoint.Waypoint
}

// NewPageData builds the initial page for a fresh session.
func NewPageData(s *session.Session) PageData {
	state := s.Store().Snapshot()
	signals, _ := json.Marshal(map[string]any{
		"mode":  state.Mode.String(),
		"error": "",
	})
	return PageData{
		Signals:   string(signals),
		APIBase:   APIBase(s.ID),
		StreamURL: APIBase(s.ID) + "/stream",
		Toolbar:   Toolbar(s.ID, state.Mode),
		Waypoints: state.Waypoints,
	}
}
