package remote

import (
	"encoding/json"
	"fmt"
	"strings"
)

// namespace is the global object defined by web/static/editor.js.
const namespace = "waypointEditor"

// call renders a JS call to namespace.fn with JSON-encoded arguments.
// encoding/json escapes <, > and & so the result is safe inside a <script>.
func call(fn string, args ...any) (string, error) {
	encoded := make([]string, len(args))
	for i, arg := range args {
		b, err := json.Marshal(arg)
		if err != nil {
			return "", fmt.Errorf("encode %s argument %d: %w", fn, i, err)
		}
		encoded[i] = string(b)
	}
	return fmt.Sprintf("window.%s.%s(%s);", namespace, fn, strings.Join(encoded, ",")), nil
}

// lngLat is the [lng, lat] pair the browser map expects.
type lngLat [2]float64

type createMapPayload struct {
	AccessToken string    `json:"accessToken"`
	Style       string    `json:"style"`
	Center      lngLat    `json:"center"`
	Zoom        float64   `json:"zoom"`
	LineSource  string    `json:"lineSource"`
	Line        linePaint `json:"line"`
}

type linePaint struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

type markerPayload struct {
	ID        string `json:"id"`
	Position  lngLat `json:"position"`
	Label     string `json:"label"`
	Draggable bool   `json:"draggable"`
}
