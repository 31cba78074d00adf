package editor

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-waypoint/internal/mapsync/remote"
	"github.com/joeblew999/plat-waypoint/internal/waypoint"
)

// PositionBody is a coordinate reported by the browser map.
type PositionBody struct {
	Lat float64 `json:"lat" minimum:"-90" maximum:"90" doc:"Latitude in degrees" example:"13.8"`
	Lng float64 `json:"lng" minimum:"-180" maximum:"180" doc:"Longitude in degrees" example:"100.55"`
}

func (b PositionBody) toWaypoint() waypoint.Waypoint {
	return waypoint.New(b.Lat, b.Lng)
}

// PositionInput carries a click on the map surface.
type PositionInput struct {
	SessionInput
	Body PositionBody
}

// MarkerInput identifies a marker.
type MarkerInput struct {
	SessionInput
	ID string `path:"id" doc:"Marker ID assigned by the server" example:"m1"`
}

// MarkerPositionInput carries a marker's live position.
type MarkerPositionInput struct {
	MarkerInput
	Body PositionBody
}

// withMap runs fn on the session's map inside the session's event loop.
func (h *Handler) withMap(id string, fn func(m *remote.Map) error) (*struct{}, error) {
	s, err := h.lookup(id)
	if err != nil {
		return nil, err
	}
	var ferr error
	attached := true
	s.Do(func() {
		m := s.Map()
		if m == nil {
			attached = false
			return
		}
		ferr = fn(m)
	})
	if !attached {
		return nil, huma.Error409Conflict("map not attached, open the editor stream first")
	}
	if errors.Is(ferr, remote.ErrUnknownMarker) {
		// the marker was replaced by a later reconciliation pass
		h.log.Debug().Err(ferr).Str("session", s.ID).Msg("stale marker event ignored")
		ferr = nil
	}
	return &struct{}{}, ferr
}

// StyleReady is posted once the browser map has loaded its style.
func (h *Handler) StyleReady(ctx context.Context, input *SessionInput) (*struct{}, error) {
	return h.withMap(input.Session, func(m *remote.Map) error {
		m.StyleLoaded()
		return nil
	})
}

// MapClick is posted for clicks on the map surface.
func (h *Handler) MapClick(ctx context.Context, input *PositionInput) (*struct{}, error) {
	return h.withMap(input.Session, func(m *remote.Map) error {
		m.Click(input.Body.toWaypoint())
		return nil
	})
}

// MarkerClick is posted for clicks on a marker.
func (h *Handler) MarkerClick(ctx context.Context, input *MarkerInput) (*struct{}, error) {
	return h.withMap(input.Session, func(m *remote.Map) error {
		return m.MarkerClick(input.ID)
	})
}

// MarkerDrag is posted for every drag tick of a draggable marker.
func (h *Handler) MarkerDrag(ctx context.Context, input *MarkerPositionInput) (*struct{}, error) {
	return h.withMap(input.Session, func(m *remote.Map) error {
		return m.MarkerDrag(input.ID, input.Body.toWaypoint())
	})
}

// MarkerDragEnd is posted when a marker drag finishes.
func (h *Handler) MarkerDragEnd(ctx context.Context, input *MarkerPositionInput) (*struct{}, error) {
	return h.withMap(input.Session, func(m *remote.Map) error {
		return m.MarkerDragEnd(input.ID, input.Body.toWaypoint())
	})
}
