// Package mapsync keeps a map engine's markers and connecting line in step
// with a waypoint store.
//
// The map engine is an opaque capability ([Engine], [Map], [Marker]); any
// renderer that satisfies these interfaces can be driven by a [View].
package mapsync

import (
	"errors"

	"github.com/paulmach/orb/geojson"

	"github.com/joeblew999/plat-waypoint/internal/waypoint"
)

// ErrStyleNotReady is returned by Reconcile while the map engine is still
// loading its style resources.
var ErrStyleNotReady = errors.New("map style not loaded")

// LineSourceID is the id of the line data source and its layer.
const LineSourceID = "waypoints-line"

// LinePaint styles the connecting line.
type LinePaint struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// MapOptions configures a new map instance.
type MapOptions struct {
	Style  string
	Center waypoint.Waypoint
	Zoom   float64
	Line   LinePaint
}

// MarkerOptions configures a new marker.
type MarkerOptions struct {
	Position  waypoint.Waypoint
	Label     string
	Draggable bool
}

// Event is a pointer event raised by the map or by a marker.
type Event struct {
	Position waypoint.Waypoint
	stopped  bool
}

// NewEvent returns an event at pos.
func NewEvent(pos waypoint.Waypoint) *Event {
	return &Event{Position: pos}
}

// StopPropagation keeps a marker event from reaching the map's own handlers.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool {
	return e.stopped
}

// Handler handles a map or marker event.
type Handler func(ev *Event)

// Engine creates map instances.
type Engine interface {
	CreateMap(opts MapOptions) (Map, error)
}

// Map is a live map instance.
type Map interface {
	// OnClick registers a handler for clicks on the map surface. Marker
	// clicks bubble here unless a marker handler stops propagation.
	OnClick(h Handler)
	// OnStyleLoad registers a handler called once the style has loaded.
	OnStyleLoad(fn func())
	IsStyleLoaded() bool
	AddMarker(opts MarkerOptions) Marker
	// SetLineSource creates the GeoJSON source and line layer id on first
	// use and replaces its data afterwards.
	SetLineSource(id string, data *geojson.FeatureCollection)
}

// Marker is a point marker placed on a Map.
type Marker interface {
	OnClick(h Handler)
	OnDrag(h Handler)
	OnDragEnd(h Handler)
	Position() waypoint.Waypoint
	Remove()
}
