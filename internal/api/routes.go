// Package api defines the Huma API routes and handlers.
package api

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-waypoint/internal/mapsync"
	"github.com/joeblew999/plat-waypoint/internal/session"
	"github.com/joeblew999/plat-waypoint/internal/waypoint"
)

// Types

type IndexInput struct {
	session.CookieInput
	Index int `path:"index" minimum:"0" doc:"Zero-based waypoint index" example:"0"`
}

type StateBody struct {
	Mode      string              `json:"mode" doc:"Interaction mode" enum:"idle,adding,editing,deleting"`
	Version   uint64              `json:"version" doc:"Incremented on every sequence change"`
	Waypoints []waypoint.Waypoint `json:"waypoints" doc:"Waypoints in route order"`
}

type WaypointsOutput struct {
	Body []waypoint.Waypoint
}

type WaypointOutput struct {
	Body waypoint.Waypoint
}

type LineOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

type MessageBody struct {
	Message string `json:"message" doc:"Result message"`
}

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"1.0.0"`
}

// APIHandler holds all REST API handlers. Methods named Register* are
// auto-discovered by huma.AutoRegister.
type APIHandler struct {
	sessions *session.Manager
}

func NewAPIHandler(sessions *session.Manager) *APIHandler {
	return &APIHandler{sessions: sessions}
}

// RegisterRoutes registers every REST route on api.
func RegisterRoutes(api huma.API, sessions *session.Manager) {
	huma.AutoRegister(api, NewAPIHandler(sessions))
}

// RegisterHealth registers health check routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
}

// RegisterWaypoints registers the waypoint routes of the caller's session.
func (h *APIHandler) RegisterWaypoints(api huma.API) {
	huma.Get(api, "/api/v1/state", h.GetState, huma.OperationTags("waypoints"))
	huma.Get(api, "/api/v1/waypoints", h.GetWaypoints, huma.OperationTags("waypoints"))
	huma.Post(api, "/api/v1/waypoints", h.AddWaypoint, huma.OperationTags("waypoints"))
	huma.Get(api, "/api/v1/waypoints/line", h.GetLine, huma.OperationTags("waypoints"))
	huma.Get(api, "/api/v1/waypoints/{index}", h.GetWaypoint, huma.OperationTags("waypoints"))
	huma.Put(api, "/api/v1/waypoints/{index}", h.PutWaypoint, huma.OperationTags("waypoints"))
	huma.Delete(api, "/api/v1/waypoints/{index}", h.DeleteWaypoint, huma.OperationTags("waypoints"))
}

// Handlers

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: "1.0.0"}}, nil
}

func (h *APIHandler) session(id string) (*session.Session, error) {
	s, err := h.sessions.Get(id)
	if err != nil {
		return nil, huma.Error404NotFound("session not found")
	}
	return s, nil
}

func (h *APIHandler) GetState(ctx context.Context, input *session.CookieInput) (*struct{ Body StateBody }, error) {
	s, err := h.session(input.Session)
	if err != nil {
		return nil, err
	}
	state := s.Store().Snapshot()
	return &struct{ Body StateBody }{Body: StateBody{
		Mode: state.Mode.String(), Version: state.Version, Waypoints: state.Waypoints,
	}}, nil
}

func (h *APIHandler) GetWaypoints(ctx context.Context, input *session.CookieInput) (*WaypointsOutput, error) {
	s, err := h.session(input.Session)
	if err != nil {
		return nil, err
	}
	return &WaypointsOutput{Body: s.Store().Waypoints()}, nil
}

func (h *APIHandler) AddWaypoint(ctx context.Context, input *struct {
	session.CookieInput
	Body waypoint.Waypoint
}) (*WaypointsOutput, error) {
	s, err := h.session(input.Session)
	if err != nil {
		return nil, err
	}
	var seq []waypoint.Waypoint
	s.Do(func() {
		s.Store().Add(input.Body)
		seq = s.Store().Waypoints()
	})
	return &WaypointsOutput{Body: seq}, nil
}

func (h *APIHandler) GetWaypoint(ctx context.Context, input *IndexInput) (*WaypointOutput, error) {
	s, err := h.session(input.Session)
	if err != nil {
		return nil, err
	}
	seq := s.Store().Waypoints()
	if input.Index >= len(seq) {
		return nil, huma.Error404NotFound(waypoint.ErrIndexOutOfRange.Error())
	}
	return &WaypointOutput{Body: seq[input.Index]}, nil
}

func (h *APIHandler) PutWaypoint(ctx context.Context, input *struct {
	IndexInput
	Body waypoint.Waypoint
}) (*WaypointOutput, error) {
	s, err := h.session(input.Session)
	if err != nil {
		return nil, err
	}
	s.Do(func() { err = s.Store().Update(input.Index, input.Body) })
	if err != nil {
		return nil, indexError(err)
	}
	return &WaypointOutput{Body: input.Body}, nil
}

func (h *APIHandler) DeleteWaypoint(ctx context.Context, input *IndexInput) (*struct{ Body MessageBody }, error) {
	s, err := h.session(input.Session)
	if err != nil {
		return nil, err
	}
	s.Do(func() { err = s.Store().Delete(input.Index) })
	if err != nil {
		return nil, indexError(err)
	}
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Waypoint deleted"}}, nil
}

func (h *APIHandler) GetLine(ctx context.Context, input *session.CookieInput) (*LineOutput, error) {
	s, err := h.session(input.Session)
	if err != nil {
		return nil, err
	}
	fc := mapsync.LineFeatureCollection(waypoint.LineString(s.Store().Waypoints()))
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, huma.Error500InternalServerError("encode line", err)
	}
	return &LineOutput{ContentType: geojsonContentType, Body: data}, nil
}

const geojsonContentType = "application/geo+json"

func indexError(err error) error {
	if errors.Is(err, waypoint.ErrIndexOutOfRange) {
		return huma.Error404NotFound(err.Error())
	}
	return huma.Error500InternalServerError(err.Error())
}
