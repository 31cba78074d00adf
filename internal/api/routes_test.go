package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/plat-waypoint/internal/config"
	"github.com/joeblew999/plat-waypoint/internal/session"
	"github.com/joeblew999/plat-waypoint/internal/waypoint"
)

func newTestAPI(t *testing.T) (humatest.TestAPI, *session.Manager) {
	t.Helper()
	cfg := huma.DefaultConfig("plat-waypoint API", "1.0.0")
	cfg.Transformers = append(cfg.Transformers, LinkTransformer())
	_, api := humatest.New(t, cfg)
	sessions := session.NewManager(session.Config{AccessToken: "pk.test"}, 0, zerolog.Nop())
	RegisterRoutes(api, sessions)
	NewInfoHandler(sessions, config.Profile{Style: "mapbox://styles/mapbox/satellite-streets-v12"}).RegisterRoutes(api)
	return api, sessions
}

func cookie(s *session.Session) string {
	return "Cookie: " + session.CookieName + "=" + s.ID
}

func TestHealth(t *testing.T) {
	api, _ := newTestAPI(t)
	resp := api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"status":"ok"`)
}

func TestInfo_ReportsSessions(t *testing.T) {
	api, sessions := newTestAPI(t)
	sessions.Create()
	sessions.Create()

	resp := api.Get("/api/v1/info")
	require.Equal(t, http.StatusOK, resp.Code)

	var body InfoBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "plat-waypoint", body.Name)
	assert.Equal(t, 2, body.Sessions)
}

func TestWaypoints_UnknownSession(t *testing.T) {
	api, _ := newTestAPI(t)
	resp := api.Get("/api/v1/waypoints", "Cookie: "+session.CookieName+"=nope")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestWaypoints_CRUD(t *testing.T) {
	api, sessions := newTestAPI(t)
	s := sessions.Create()

	resp := api.Post("/api/v1/waypoints", cookie(s), map[string]any{"latitude": 13.8, "longitude": 100.55})
	require.Equal(t, http.StatusOK, resp.Code)
	resp = api.Post("/api/v1/waypoints", cookie(s), map[string]any{"latitude": 13.9, "longitude": 100.6})
	require.Equal(t, http.StatusOK, resp.Code)

	var seq []waypoint.Waypoint
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &seq))
	assert.Equal(t, []waypoint.Waypoint{waypoint.New(13.8, 100.55), waypoint.New(13.9, 100.6)}, seq)

	resp = api.Put("/api/v1/waypoints/0", cookie(s), map[string]any{"latitude": 13.85, "longitude": 100.58})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, waypoint.New(13.85, 100.58), s.Store().Waypoints()[0])

	resp = api.Get("/api/v1/waypoints/1", cookie(s))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Link"), `rel="collection"`)

	resp = api.Delete("/api/v1/waypoints/0", cookie(s))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []waypoint.Waypoint{waypoint.New(13.9, 100.6)}, s.Store().Waypoints())
}

func TestWaypoints_OutOfRange(t *testing.T) {
	api, sessions := newTestAPI(t)
	s := sessions.Create()
	s.Store().Add(waypoint.New(1, 2))

	assert.Equal(t, http.StatusNotFound, api.Get("/api/v1/waypoints/3", cookie(s)).Code)
	assert.Equal(t, http.StatusNotFound, api.Delete("/api/v1/waypoints/1", cookie(s)).Code)
	assert.Equal(t, http.StatusNotFound,
		api.Put("/api/v1/waypoints/1", cookie(s), map[string]any{"latitude": 0, "longitude": 0}).Code)
	assert.Equal(t, 1, s.Store().Len())
}

func TestState(t *testing.T) {
	api, sessions := newTestAPI(t)
	s := sessions.Create()
	s.Store().ToggleMode(waypoint.Editing)
	s.Store().Add(waypoint.New(1, 2))

	resp := api.Get("/api/v1/state", cookie(s))
	require.Equal(t, http.StatusOK, resp.Code)

	var body StateBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "editing", body.Mode)
	assert.Equal(t, uint64(1), body.Version)
	assert.Len(t, body.Waypoints, 1)
}

func TestLine_GeoJSON(t *testing.T) {
	api, sessions := newTestAPI(t)
	s := sessions.Create()
	s.Store().Add(waypoint.New(13.8, 100.55))
	s.Store().Add(waypoint.New(13.9, 100.6))

	resp := api.Get("/api/v1/waypoints/line", cookie(s))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, geojsonContentType, resp.Header().Get("Content-Type"))

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string      `json:"type"`
				Coordinates [][]float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "LineString", fc.Features[0].Geometry.Type)
	assert.Equal(t, [][]float64{{100.55, 13.8}, {100.6, 13.9}}, fc.Features[0].Geometry.Coordinates)
}
