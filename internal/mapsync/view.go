package mapsync

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog"

	"github.com/joeblew999/plat-waypoint/internal/waypoint"
)

// View renders a waypoint store onto a map and turns map input into store
// mutations. Markers are rebuilt from scratch on every reconciliation pass.
//
// A View is not safe for concurrent use; callers serialise events.
type View struct {
	store   *waypoint.Store
	log     zerolog.Logger
	m       Map
	markers []Marker
	line    orb.LineString
}

// NewView creates a view over store. Call Mount to attach it to a map.
func NewView(store *waypoint.Store, logger zerolog.Logger) *View {
	return &View{
		store: store,
		log:   logger.With().Str("component", "mapsync").Logger(),
	}
}

// Mount creates the map, wires its click and style-load handlers and
// subscribes to the store. Mounting an already mounted view does nothing.
func (v *View) Mount(engine Engine, opts MapOptions) error {
	if v.m != nil {
		return nil
	}
	m, err := engine.CreateMap(opts)
	if err != nil {
		return fmt.Errorf("create map: %w", err)
	}
	v.m = m
	v.log.Debug().
		Float64("lat", opts.Center.Latitude).
		Float64("lng", opts.Center.Longitude).
		Float64("zoom", opts.Zoom).
		Msg("map created")

	m.OnClick(v.handleMapClick)
	m.OnStyleLoad(func() { v.reconcile("style loaded") })
	v.store.Subscribe(v.handleChange)
	v.reconcile("mount")
	return nil
}

// Map returns the mounted map, or nil.
func (v *View) Map() Map {
	return v.m
}

// Markers returns the markers placed by the last reconciliation pass.
func (v *View) Markers() []Marker {
	return slices.Clone(v.markers)
}

// Line returns the coordinates last pushed to the line source.
func (v *View) Line() orb.LineString {
	return slices.Clone(v.line)
}

// Reconcile removes every marker and recreates markers and the line from the
// current store state.
func (v *View) Reconcile() error {
	if v.m == nil || !v.m.IsStyleLoaded() {
		return ErrStyleNotReady
	}
	state := v.store.Snapshot()
	editing := state.Mode == waypoint.Editing
	deleting := state.Mode == waypoint.Deleting

	for _, mk := range v.markers {
		mk.Remove()
	}
	v.markers = make([]Marker, 0, len(state.Waypoints))

	for i, wp := range state.Waypoints {
		mk := v.m.AddMarker(MarkerOptions{
			Position:  wp,
			Label:     strconv.Itoa(i + 1),
			Draggable: editing,
		})
		if deleting {
			mk.OnClick(func(ev *Event) {
				ev.StopPropagation()
				v.deleteAt(i)
			})
		}
		if editing {
			mk.OnDrag(func(ev *Event) { v.previewDrag(i, ev.Position) })
			mk.OnDragEnd(func(ev *Event) { v.commitDrag(i, ev.Position) })
		}
		v.markers = append(v.markers, mk)
	}

	v.setLine(waypoint.LineString(state.Waypoints))
	v.log.Debug().
		Int("waypoints", len(state.Waypoints)).
		Stringer("mode", state.Mode).
		Msg("markers and line reconciled")
	return nil
}

func (v *View) reconcile(reason string) {
	err := v.Reconcile()
	if errors.Is(err, ErrStyleNotReady) {
		v.log.Debug().Str("reason", reason).Msg("map style not yet loaded, skipping reconcile")
	}
}

func (v *View) handleChange(prev, next waypoint.State) {
	if !needsReconcile(prev, next) {
		return
	}
	v.reconcile("store changed")
}

// needsReconcile reports whether a change affects markers or the line: the
// sequence itself, or the editing and deleting flags that shape marker
// interactivity.
func needsReconcile(prev, next waypoint.State) bool {
	if prev.Version != next.Version {
		return true
	}
	if (prev.Mode == waypoint.Editing) != (next.Mode == waypoint.Editing) {
		return true
	}
	return (prev.Mode == waypoint.Deleting) != (next.Mode == waypoint.Deleting)
}

func (v *View) handleMapClick(ev *Event) {
	if v.store.Mode() != waypoint.Adding {
		return
	}
	v.store.Add(ev.Position)
}

func (v *View) deleteAt(index int) {
	if err := v.store.Delete(index); err != nil {
		v.log.Debug().Err(err).Msg("delete ignored")
	}
}

// previewDrag redraws the line with the dragged marker at pos, reading the
// latest committed sequence. The store is left untouched.
func (v *View) previewDrag(index int, pos waypoint.Waypoint) {
	waypoints := v.store.Waypoints()
	if index >= len(waypoints) {
		return
	}
	waypoints[index] = pos
	v.setLine(waypoint.LineString(waypoints))
}

func (v *View) commitDrag(index int, pos waypoint.Waypoint) {
	if err := v.store.Update(index, pos); err != nil {
		v.log.Debug().Err(err).Msg("drag end ignored")
	}
}

func (v *View) setLine(line orb.LineString) {
	v.line = line
	v.m.SetLineSource(LineSourceID, LineFeatureCollection(line))
}
