// Package session ties one browser tab's waypoint store, map view and remote
// map engine together and serialises the events that drive them.
package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/joeblew999/plat-waypoint/internal/mapsync"
	"github.com/joeblew999/plat-waypoint/internal/mapsync/remote"
	"github.com/joeblew999/plat-waypoint/internal/waypoint"
)

// ErrNotFound is returned for an unknown or expired session ID.
var ErrNotFound = errors.New("session not found")

// Config is shared by every session a Manager creates.
type Config struct {
	AccessToken string
	Map         mapsync.MapOptions
}

// Session is the editor state of one browser tab. Waypoints live only as
// long as the session.
type Session struct {
	ID string

	mu     sync.Mutex
	store  *waypoint.Store
	view   *mapsync.View
	engine *remote.Engine
	opts   mapsync.MapOptions
	bus    *Bus
	log    zerolog.Logger

	lastSeen atomic.Int64
	streams  atomic.Int32
}

func newSession(id string, cfg Config, bus *Bus, now time.Time, logger zerolog.Logger) *Session {
	log := logger.With().Str("session", id).Logger()
	store := waypoint.NewStore(log)
	s := &Session{
		ID:     id,
		store:  store,
		view:   mapsync.NewView(store, log),
		engine: remote.NewEngine(cfg.AccessToken, log),
		opts:   cfg.Map,
		bus:    bus,
		log:    log,
	}
	s.lastSeen.Store(now.UnixNano())
	store.Subscribe(s.publish)
	return s
}

// Do runs fn with exclusive access to the session. Every inbound event goes
// through Do so handlers run to completion one at a time.
func (s *Session) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	fn()
}

// Attach mounts the map on the first stream connection. Later connections
// trigger a full reconciliation so a reconnecting browser catches up.
func (s *Session) Attach() error {
	var err error
	s.Do(func() {
		if s.view.Map() == nil {
			err = s.view.Mount(s.engine, s.opts)
			return
		}
		if rerr := s.view.Reconcile(); rerr != nil && !errors.Is(rerr, mapsync.ErrStyleNotReady) {
			err = rerr
			return
		}
		s.log.Debug().Int("markers", s.Map().MarkerCount()).Msg("stream reattached")
	})
	return err
}

// Connect marks a stream as open until the returned release func is called.
// Sessions with an open stream are never swept.
func (s *Session) Connect() (release func()) {
	s.streams.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() {
			s.streams.Add(-1)
			s.touch()
		})
	}
}

// Store returns the session's waypoint store.
func (s *Session) Store() *waypoint.Store {
	return s.store
}

// View returns the session's map view.
func (s *Session) View() *mapsync.View {
	return s.view
}

// Engine returns the session's remote map engine.
func (s *Session) Engine() *remote.Engine {
	return s.engine
}

// Map returns the remote map, or nil before Attach.
func (s *Session) Map() *remote.Map {
	return s.engine.Map()
}

func (s *Session) touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

func (s *Session) idle(now time.Time, ttl time.Duration) bool {
	if s.streams.Load() > 0 {
		return false
	}
	return now.Sub(time.Unix(0, s.lastSeen.Load())) > ttl
}

func (s *Session) publish(prev, next waypoint.State) {
	action := "mode"
	if prev.Version != next.Version {
		action = "waypoints"
	}
	s.bus.Publish(Event{
		Session: s.ID,
		Action:  action,
		Mode:    next.Mode.String(),
		Count:   len(next.Waypoints),
	})
}

// CookieName is the cookie carrying the session ID.
const CookieName = "wp_session"

// CookieInput is embedded in REST inputs that act on the caller's most
// recently opened editor session. Editor pages address their own session by
// path instead.
type CookieInput struct {
	Session string `cookie:"wp_session" doc:"Editor session ID (set by GET /editor)"`
}
