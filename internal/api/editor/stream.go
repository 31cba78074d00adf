package editor

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-waypoint/internal/humastar"
	"github.com/joeblew999/plat-waypoint/internal/session"
)

// Events is the long-lived SSE stream of one editor page. It mounts the map
// on first connect, forwards map commands as scripts and refreshes the
// waypoint list whenever the session's sequence changes.
func (h *Handler) Events(ctx context.Context, input *SessionInput) (*huma.StreamResponse, error) {
	s, err := h.lookup(input.Session)
	if err != nil {
		return nil, err
	}

	return h.Stream(func(sse humastar.SSE) {
		release := s.Connect()
		defer release()

		log := h.log.With().Str("session", s.ID).Logger()
		if err := s.Attach(); err != nil {
			log.Error().Err(err).Msg("attach failed")
			sse.Error("Failed to start the map: " + err.Error())
			return
		}

		ch := h.sessions.Bus().Subscribe(s.ID)
		defer h.sessions.Bus().Unsubscribe(ch)

		out := s.Engine().Outbox()
		flush := func() bool {
			for _, script := range out.Drain() {
				if err := sse.Script(script); err != nil {
					log.Debug().Err(err).Msg("stream closed while sending map command")
					return false
				}
			}
			return true
		}

		log.Debug().Msg("editor stream connected")
		defer log.Debug().Msg("editor stream closed")

		if !flush() {
			return
		}
		for {
			select {
			case <-sse.Context().Done():
				return
			case <-out.Notify():
				if !flush() {
					return
				}
			case ev, ok := <-ch:
				if !ok {
					return
				}
				if ev.Action != "waypoints" {
					continue
				}
				if err := sse.Patch(h.renderWaypointList(s), "#waypoint-list"); err != nil {
					return
				}
			}
		}
	}), nil
}

func (h *Handler) renderWaypointList(s *session.Session) string {
	html, err := h.Renderer.Render("waypoint-list", s.Store().Waypoints())
	if err != nil {
		return "<!-- template error: " + err.Error() + " -->"
	}
	return html
}
