package remote

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/plat-waypoint/internal/mapsync"
	"github.com/joeblew999/plat-waypoint/internal/waypoint"
)

var testOptions = mapsync.MapOptions{
	Style:  "mapbox://styles/mapbox/satellite-streets-v12",
	Center: waypoint.New(13.7563, 100.5018),
	Zoom:   12,
	Line:   mapsync.LinePaint{Color: "#3b82f6", Width: 4},
}

func newMountedEngine(t *testing.T) (*waypoint.Store, *mapsync.View, *Engine) {
	t.Helper()
	store := waypoint.NewStore(zerolog.Nop())
	view := mapsync.NewView(store, zerolog.Nop())
	engine := NewEngine("pk.test", zerolog.Nop())
	require.NoError(t, view.Mount(engine, testOptions))
	return store, view, engine
}

func countPrefix(scripts []string, fn string) int {
	n := 0
	for _, s := range scripts {
		if strings.HasPrefix(s, "window.waypointEditor."+fn+"(") {
			n++
		}
	}
	return n
}

func TestCall(t *testing.T) {
	script, err := call("removeMarker", "m1")
	require.NoError(t, err)
	assert.Equal(t, `window.waypointEditor.removeMarker("m1");`, script)

	script, err = call("setLabel", "</script>")
	require.NoError(t, err)
	assert.NotContains(t, script, "</script>")

	_, err = call("bad", func() {})
	assert.Error(t, err)
}

func TestEngine_CreateMapQueuesCommand(t *testing.T) {
	_, _, engine := newMountedEngine(t)

	scripts := engine.Outbox().Drain()
	require.Len(t, scripts, 1)
	assert.Contains(t, scripts[0], `window.waypointEditor.createMap(`)
	assert.Contains(t, scripts[0], `"accessToken":"pk.test"`)
	assert.Contains(t, scripts[0], `"center":[100.5018,13.7563]`)
	assert.Contains(t, scripts[0], `"zoom":12`)
	assert.Contains(t, scripts[0], `"lineSource":"waypoints-line"`)

	_, err := engine.CreateMap(testOptions)
	assert.ErrorIs(t, err, ErrMapExists)
}

func TestEngine_NothingRenderedBeforeStyleLoads(t *testing.T) {
	store, _, engine := newMountedEngine(t)
	engine.Outbox().Drain()

	store.ToggleMode(waypoint.Adding)
	engine.Map().Click(waypoint.New(13.80, 100.55))

	assert.Equal(t, 1, store.Len())
	assert.Zero(t, engine.Outbox().Len())

	engine.Map().StyleLoaded()
	scripts := engine.Outbox().Drain()
	assert.Equal(t, 1, countPrefix(scripts, "addMarker"))
	assert.Equal(t, 1, countPrefix(scripts, "setLineSource"))
}

func TestEngine_AddScenario(t *testing.T) {
	store, view, engine := newMountedEngine(t)
	m := engine.Map()
	m.StyleLoaded()
	engine.Outbox().Drain()

	store.ToggleMode(waypoint.Adding)
	m.Click(waypoint.New(13.80, 100.55))

	assert.Equal(t, []waypoint.Waypoint{waypoint.New(13.80, 100.55)}, store.Waypoints())
	assert.Equal(t, 1, m.MarkerCount())
	assert.Len(t, view.Line(), 1)

	scripts := engine.Outbox().Drain()
	require.Len(t, scripts, 2)
	assert.Contains(t, scripts[0], `"label":"1"`)
	assert.Contains(t, scripts[0], `"position":[100.55,13.8]`)
	assert.Contains(t, scripts[0], `"draggable":false`)
	assert.Contains(t, scripts[1], `setLineSource("waypoints-line",`)
	assert.Contains(t, scripts[1], `"coordinates":[[100.55,13.8]]`)
}

func TestEngine_DragScenario(t *testing.T) {
	store, _, engine := newMountedEngine(t)
	m := engine.Map()
	m.StyleLoaded()
	store.Add(waypoint.New(13.80, 100.55))
	store.Add(waypoint.New(13.85, 100.57))
	store.ToggleMode(waypoint.Editing)
	engine.Outbox().Drain()

	commits := 0
	store.Subscribe(func(prev, next waypoint.State) {
		if prev.Version != next.Version {
			commits++
		}
	})

	id := firstMarkerID(t, m)
	require.NoError(t, m.MarkerDrag(id, waypoint.New(13.88, 100.58)))
	require.NoError(t, m.MarkerDrag(id, waypoint.New(13.90, 100.60)))

	scripts := engine.Outbox().Drain()
	assert.Equal(t, 2, countPrefix(scripts, "setLineSource"))
	assert.Zero(t, countPrefix(scripts, "addMarker"))
	assert.Zero(t, commits)

	require.NoError(t, m.MarkerDragEnd(id, waypoint.New(13.90, 100.60)))
	assert.Equal(t, 1, commits)
	assert.Equal(t, waypoint.New(13.90, 100.60), store.Waypoints()[0])

	scripts = engine.Outbox().Drain()
	assert.Equal(t, 2, countPrefix(scripts, "removeMarker"))
	assert.Equal(t, 2, countPrefix(scripts, "addMarker"))

	// the old marker is gone
	assert.ErrorIs(t, m.MarkerDrag(id, waypoint.New(0, 0)), ErrUnknownMarker)
}

func TestEngine_DeleteScenario(t *testing.T) {
	store, _, engine := newMountedEngine(t)
	m := engine.Map()
	m.StyleLoaded()
	for _, p := range []waypoint.Waypoint{waypoint.New(1, 1), waypoint.New(2, 2), waypoint.New(3, 3)} {
		store.Add(p)
	}
	store.ToggleMode(waypoint.Adding)
	store.ToggleMode(waypoint.Deleting)
	engine.Outbox().Drain()

	ids := markerIDsByLabel(m)
	require.NoError(t, m.MarkerClick(ids["2"]))

	assert.Equal(t, []waypoint.Waypoint{waypoint.New(1, 1), waypoint.New(3, 3)}, store.Waypoints())
	labels := markerIDsByLabel(m)
	assert.Len(t, labels, 2)
	assert.Contains(t, labels, "1")
	assert.Contains(t, labels, "2")

	// a plain map click in Deleting mode adds nothing
	m.Click(waypoint.New(5, 5))
	assert.Equal(t, 2, store.Len())
}

func TestEngine_MarkerClickBubblesOutsideDeleteMode(t *testing.T) {
	store, _, engine := newMountedEngine(t)
	m := engine.Map()
	m.StyleLoaded()
	store.Add(waypoint.New(1, 1))
	store.ToggleMode(waypoint.Adding)

	require.NoError(t, m.MarkerClick(firstMarkerID(t, m)))
	assert.Equal(t, []waypoint.Waypoint{waypoint.New(1, 1), waypoint.New(1, 1)}, store.Waypoints())

	assert.ErrorIs(t, m.MarkerClick("m999"), ErrUnknownMarker)
}

func TestMarker_RemoveIsIdempotent(t *testing.T) {
	_, _, engine := newMountedEngine(t)
	m := engine.Map()
	mk := m.AddMarker(mapsync.MarkerOptions{Label: "1"})
	engine.Outbox().Drain()

	mk.Remove()
	mk.Remove()
	assert.Equal(t, 1, engine.Outbox().Len())
	assert.Zero(t, m.MarkerCount())
}

func TestOutbox(t *testing.T) {
	o := NewOutbox()
	o.Push("a")
	o.Push("b")

	select {
	case <-o.Notify():
	default:
		t.Fatal("expected notification")
	}
	assert.Equal(t, []string{"a", "b"}, o.Drain())
	assert.Empty(t, o.Drain())
}

// firstMarkerID returns the id of the marker labelled "1".
func firstMarkerID(t *testing.T, m *Map) string {
	t.Helper()
	id, ok := markerIDsByLabel(m)["1"]
	require.True(t, ok)
	return id
}

// markerIDsByLabel maps marker labels to ids.
func markerIDsByLabel(m *Map) map[string]string {
	out := make(map[string]string, len(m.markers))
	for id, mk := range m.markers {
		out[mk.Label()] = id
	}
	return out
}
