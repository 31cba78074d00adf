package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-waypoint/internal/config"
	"github.com/joeblew999/plat-waypoint/internal/session"
)

type InfoHandler struct {
	sessions *session.Manager
	profile  config.Profile
}

func NewInfoHandler(sessions *session.Manager, profile config.Profile) *InfoHandler {
	return &InfoHandler{sessions: sessions, profile: profile}
}

func (h *InfoHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))
}

type InfoBody struct {
	Name     string   `json:"name" doc:"Service name"`
	Version  string   `json:"version" doc:"Service version"`
	Sessions int      `json:"sessions" doc:"Number of live editor sessions"`
	Style    string   `json:"style" doc:"Map style URL"`
	Features []string `json:"features" doc:"Available features"`
}

func (h *InfoHandler) GetInfo(ctx context.Context, input *struct{}) (*struct{ Body InfoBody }, error) {
	return &struct{ Body InfoBody }{Body: InfoBody{
		Name:     "plat-waypoint",
		Version:  "0.1.0",
		Sessions: h.sessions.Len(),
		Style:    h.profile.Style,
		Features: []string{"waypoints", "line", "datastar"},
	}}, nil
}
