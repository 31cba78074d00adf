// Package remote implements the map capability for a Mapbox GL map living in
// the browser. Commands are queued as scripts on an [Outbox] that the editor
// stream forwards with Datastar; input events come back through the
// dispatch methods on [Map].
package remote

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"

	"github.com/joeblew999/plat-waypoint/internal/mapsync"
	"github.com/joeblew999/plat-waypoint/internal/waypoint"
)

var (
	// ErrUnknownMarker is returned when the browser reports an event for a
	// marker that has been removed.
	ErrUnknownMarker = errors.New("unknown marker")
	// ErrMapExists is returned by CreateMap on an engine that already has a map.
	ErrMapExists = errors.New("map already created")
)

// Engine creates the single browser map of one editor session.
// It is not safe for concurrent use; only the Outbox is.
type Engine struct {
	token string
	out   *Outbox
	log   zerolog.Logger
	m     *Map
}

// NewEngine creates an engine that authenticates the browser map with token.
func NewEngine(token string, logger zerolog.Logger) *Engine {
	return &Engine{
		token: token,
		out:   NewOutbox(),
		log:   logger.With().Str("component", "remote-map").Logger(),
	}
}

// Outbox returns the queue of scripts for the browser.
func (e *Engine) Outbox() *Outbox {
	return e.out
}

// Map returns the created map, or nil before CreateMap.
func (e *Engine) Map() *Map {
	return e.m
}

// CreateMap queues the browser-side map construction.
func (e *Engine) CreateMap(opts mapsync.MapOptions) (mapsync.Map, error) {
	if e.m != nil {
		return nil, ErrMapExists
	}
	script, err := call("createMap", createMapPayload{
		AccessToken: e.token,
		Style:       opts.Style,
		Center:      toLngLat(opts.Center),
		Zoom:        opts.Zoom,
		LineSource:  mapsync.LineSourceID,
		Line:        linePaint{Color: opts.Line.Color, Width: opts.Line.Width},
	})
	if err != nil {
		return nil, err
	}
	e.out.Push(script)
	e.m = &Map{e: e, markers: make(map[string]*Marker)}
	return e.m, nil
}

func (e *Engine) push(fn string, args ...any) {
	script, err := call(fn, args...)
	if err != nil {
		e.log.Error().Err(err).Str("fn", fn).Msg("dropping map command")
		return
	}
	e.out.Push(script)
}

func toLngLat(w waypoint.Waypoint) lngLat {
	return lngLat{w.Longitude, w.Latitude}
}

// Map is the server-side handle of the browser map.
type Map struct {
	e           *Engine
	styleLoaded bool
	onClick     []mapsync.Handler
	onStyle     []func()
	markers     map[string]*Marker
	nextID      int
}

var _ mapsync.Map = (*Map)(nil)

func (m *Map) OnClick(h mapsync.Handler) {
	m.onClick = append(m.onClick, h)
}

func (m *Map) OnStyleLoad(fn func()) {
	m.onStyle = append(m.onStyle, fn)
}

func (m *Map) IsStyleLoaded() bool {
	return m.styleLoaded
}

func (m *Map) AddMarker(opts mapsync.MarkerOptions) mapsync.Marker {
	m.nextID++
	mk := &Marker{
		id:        fmt.Sprintf("m%d", m.nextID),
		m:         m,
		pos:       opts.Position,
		label:     opts.Label,
		draggable: opts.Draggable,
	}
	m.markers[mk.id] = mk
	m.e.push("addMarker", markerPayload{
		ID:        mk.ID(),
		Position:  toLngLat(mk.Position()),
		Label:     mk.Label(),
		Draggable: mk.Draggable(),
	})
	return mk
}

func (m *Map) SetLineSource(id string, data *geojson.FeatureCollection) {
	m.e.push("setLineSource", id, data)
}

// MarkerCount returns the number of markers currently on the map.
func (m *Map) MarkerCount() int {
	return len(m.markers)
}

// StyleLoaded records that the browser finished loading the style and runs
// the style-load handlers. A repeated report runs them again.
func (m *Map) StyleLoaded() {
	m.styleLoaded = true
	for _, fn := range m.onStyle {
		fn()
	}
}

// Click dispatches a click on the map surface.
func (m *Map) Click(pos waypoint.Waypoint) {
	ev := mapsync.NewEvent(pos)
	for _, h := range m.onClick {
		h(ev)
	}
}

// MarkerClick dispatches a click on marker id. The click bubbles to the map
// unless a marker handler stops propagation.
func (m *Map) MarkerClick(id string) error {
	mk, ok := m.markers[id]
	if !ok {
		return fmt.Errorf("click %s: %w", id, ErrUnknownMarker)
	}
	ev := mapsync.NewEvent(mk.pos)
	for _, h := range mk.onClick {
		h(ev)
	}
	if !ev.PropagationStopped() {
		m.Click(ev.Position)
	}
	return nil
}

// MarkerDrag dispatches an intermediate drag of marker id to pos.
func (m *Map) MarkerDrag(id string, pos waypoint.Waypoint) error {
	mk, ok := m.markers[id]
	if !ok {
		return fmt.Errorf("drag %s: %w", id, ErrUnknownMarker)
	}
	mk.pos = pos
	mk.dispatch(mk.onDrag)
	return nil
}

// MarkerDragEnd dispatches the end of a drag of marker id at pos.
func (m *Map) MarkerDragEnd(id string, pos waypoint.Waypoint) error {
	mk, ok := m.markers[id]
	if !ok {
		return fmt.Errorf("drag end %s: %w", id, ErrUnknownMarker)
	}
	mk.pos = pos
	mk.dispatch(mk.onDragEnd)
	return nil
}

// Marker is the server-side handle of a browser marker.
type Marker struct {
	id        string
	m         *Map
	pos       waypoint.Waypoint
	label     string
	draggable bool
	removed   bool
	onClick   []mapsync.Handler
	onDrag    []mapsync.Handler
	onDragEnd []mapsync.Handler
}

var _ mapsync.Marker = (*Marker)(nil)

// ID returns the marker id shared with the browser.
func (mk *Marker) ID() string {
	return mk.id
}

// Label returns the marker's text.
func (mk *Marker) Label() string {
	return mk.label
}

// Draggable reports whether the marker was created draggable.
func (mk *Marker) Draggable() bool {
	return mk.draggable
}

func (mk *Marker) OnClick(h mapsync.Handler)   { mk.onClick = append(mk.onClick, h) }
func (mk *Marker) OnDrag(h mapsync.Handler)    { mk.onDrag = append(mk.onDrag, h) }
func (mk *Marker) OnDragEnd(h mapsync.Handler) { mk.onDragEnd = append(mk.onDragEnd, h) }

func (mk *Marker) Position() waypoint.Waypoint {
	return mk.pos
}

func (mk *Marker) Remove() {
	if mk.removed {
		return
	}
	mk.removed = true
	delete(mk.m.markers, mk.id)
	mk.m.e.push("removeMarker", mk.id)
}

func (mk *Marker) dispatch(handlers []mapsync.Handler) {
	for _, h := range handlers {
		h(mapsync.NewEvent(mk.pos))
	}
}
