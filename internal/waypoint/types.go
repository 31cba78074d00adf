// Package waypoint holds the ordered waypoint sequence and the editor's
// interaction mode.
package waypoint

import (
	"errors"

	"github.com/paulmach/orb"
)

// ErrIndexOutOfRange is returned by Update and Delete for an index outside
// the current sequence.
var ErrIndexOutOfRange = errors.New("waypoint index out of range")

// Waypoint is a single geographic point in degrees.
type Waypoint struct {
	Latitude  float64 `json:"latitude" minimum:"-90" maximum:"90" doc:"Latitude in degrees" example:"13.7563"`
	Longitude float64 `json:"longitude" minimum:"-180" maximum:"180" doc:"Longitude in degrees" example:"100.5018"`
}

// New returns a waypoint at lat, lng.
func New(lat, lng float64) Waypoint {
	return Waypoint{Latitude: lat, Longitude: lng}
}

// Point returns the waypoint as an orb point ([lon, lat]).
func (w Waypoint) Point() orb.Point {
	return orb.Point{w.Longitude, w.Latitude}
}

// State is a snapshot of the store.
type State struct {
	Waypoints []Waypoint `json:"waypoints" doc:"Waypoints in route order"`
	Mode      Mode       `json:"mode" doc:"Current interaction mode"`
	Version   uint64     `json:"version" doc:"Incremented on every sequence change"`
}

// LineString returns the connecting line through waypoints in order.
// An empty sequence yields an empty (non-nil) line.
func LineString(waypoints []Waypoint) orb.LineString {
	ls := make(orb.LineString, 0, len(waypoints))
	for _, w := range waypoints {
		ls = append(ls, w.Point())
	}
	return ls
}
