package mapsync

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LineFeatureCollection wraps the connecting line in the single-feature
// collection the line source expects.
func LineFeatureCollection(line orb.LineString) *geojson.FeatureCollection {
	if line == nil {
		line = orb.LineString{}
	}
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(line))
	return fc
}
