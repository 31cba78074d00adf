// Package editor contains the Datastar SSE and map event handlers behind the
// waypoint editor page.
package editor

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"

	"github.com/joeblew999/plat-waypoint/internal/humastar"
	"github.com/joeblew999/plat-waypoint/internal/session"
)

// Handler serves the editor endpoints for every session.
type Handler struct {
	humastar.Handler
	sessions *session.Manager
	log      zerolog.Logger
}

// NewHandler creates the editor handler.
func NewHandler(sessions *session.Manager, renderer *humastar.Renderer, logger zerolog.Logger) *Handler {
	return &Handler{
		Handler:  humastar.Handler{Renderer: renderer},
		sessions: sessions,
		log:      logger.With().Str("component", "editor").Logger(),
	}
}

// RegisterRoutes registers the editor routes with Huma.
func (h *Handler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/editor/{session}/stream", h.Events, huma.OperationTags("editor"))
	huma.Post(api, "/api/v1/editor/{session}/mode/{mode}", h.ToggleMode, huma.OperationTags("editor"))

	huma.Post(api, "/api/v1/editor/{session}/map/style-ready", h.StyleReady, huma.OperationTags("editor"))
	huma.Post(api, "/api/v1/editor/{session}/map/click", h.MapClick, huma.OperationTags("editor"))
	huma.Post(api, "/api/v1/editor/{session}/markers/{id}/click", h.MarkerClick, huma.OperationTags("editor"))
	huma.Post(api, "/api/v1/editor/{session}/markers/{id}/drag", h.MarkerDrag, huma.OperationTags("editor"))
	huma.Post(api, "/api/v1/editor/{session}/markers/{id}/dragend", h.MarkerDragEnd, huma.OperationTags("editor"))
}

// SessionInput selects the editor session of one page. Every tab carries
// its own ID in the URL, so tabs sharing a cookie jar never cross.
type SessionInput struct {
	Session string `path:"session" doc:"Editor session ID rendered into the page" example:"0b4c9c9e-5d3f-4f57-9a51-2f1a7f0c4e11"`
}

// APIBase returns the URL prefix of session id's editor endpoints.
func APIBase(id string) string {
	return "/api/v1/editor/" + id
}

func (h *Handler) lookup(id string) (*session.Session, error) {
	s, err := h.sessions.Get(id)
	if err != nil {
		return nil, huma.Error404NotFound("editor session not found, reload the page")
	}
	return s, nil
}
