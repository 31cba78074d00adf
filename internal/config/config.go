// Package config loads the map profile: style, initial view and line paint.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/joeblew999/plat-waypoint/internal/mapsync"
	"github.com/joeblew999/plat-waypoint/internal/waypoint"
)

// ErrMissingCredential is returned when no map access token is configured.
var ErrMissingCredential = errors.New("map access token is required")

// Center is the initial map center in degrees.
type Center struct {
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
}

// Line styles the connecting line.
type Line struct {
	Color string  `mapstructure:"color"`
	Width float64 `mapstructure:"width"`
}

// Profile describes how the editor map starts out.
type Profile struct {
	Style  string  `mapstructure:"style"`
	Center Center  `mapstructure:"center"`
	Zoom   float64 `mapstructure:"zoom"`
	Line   Line    `mapstructure:"line"`
}

// LoadProfile reads the map profile from path (YAML, JSON or TOML by
// extension) on top of built-in defaults. An empty path uses the defaults.
// WAYPOINT_MAP_* environment variables override both, e.g.
// WAYPOINT_MAP_CENTER_LATITUDE.
func LoadProfile(path string) (Profile, error) {
	v := viper.New()

	// Bangkok, satellite imagery with street labels
	v.SetDefault("style", "mapbox://styles/mapbox/satellite-streets-v12")
	v.SetDefault("center.latitude", 13.7563)
	v.SetDefault("center.longitude", 100.5018)
	v.SetDefault("zoom", 12)
	v.SetDefault("line.color", "#3b82f6")
	v.SetDefault("line.width", 4)

	v.SetEnvPrefix("waypoint_map")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Profile{}, fmt.Errorf("error reading map profile: %w", err)
		}
	}

	var p Profile
	if err := v.Unmarshal(&p); err != nil {
		return Profile{}, fmt.Errorf("error decoding map profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate checks the center and zoom are usable.
func (p Profile) Validate() error {
	if p.Center.Latitude < -90 || p.Center.Latitude > 90 {
		return fmt.Errorf("center latitude %v out of range [-90, 90]", p.Center.Latitude)
	}
	if p.Center.Longitude < -180 || p.Center.Longitude > 180 {
		return fmt.Errorf("center longitude %v out of range [-180, 180]", p.Center.Longitude)
	}
	if p.Zoom < 0 || p.Zoom > 22 {
		return fmt.Errorf("zoom %v out of range [0, 22]", p.Zoom)
	}
	if p.Style == "" {
		return errors.New("map style is required")
	}
	return nil
}

// MapOptions converts the profile into map creation options.
func (p Profile) MapOptions() mapsync.MapOptions {
	return mapsync.MapOptions{
		Style:  p.Style,
		Center: waypoint.New(p.Center.Latitude, p.Center.Longitude),
		Zoom:   p.Zoom,
		Line:   mapsync.LinePaint{Color: p.Line.Color, Width: p.Line.Width},
	}
}

// RequireToken fails with ErrMissingCredential for an empty token.
func RequireToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrMissingCredential
	}
	return nil
}
