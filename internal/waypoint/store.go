package waypoint

import (
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// Listener is called after every committed change with the state before and
// after the change.
type Listener func(prev, next State)

// Store owns the waypoint sequence and the interaction mode.
type Store struct {
	mu        sync.RWMutex
	waypoints []Waypoint
	mode      Mode
	version   uint64
	listeners []Listener
	log       zerolog.Logger
}

// NewStore creates an empty store in Idle mode.
func NewStore(logger zerolog.Logger) *Store {
	return &Store{log: logger.With().Str("component", "waypoint-store").Logger()}
}

// Subscribe registers a listener for state changes.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Waypoints returns a copy of the current sequence.
func (s *Store) Waypoints() []Waypoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.waypoints)
}

// Mode returns the current interaction mode.
func (s *Store) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Len returns the number of waypoints.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.waypoints)
}

// Add appends p to the end of the sequence.
func (s *Store) Add(p Waypoint) {
	s.commit(func() error {
		s.waypoints = append(s.waypoints, p)
		s.version++
		return nil
	})
	s.log.Debug().Float64("lat", p.Latitude).Float64("lng", p.Longitude).Msg("waypoint added")
}

// Update replaces the waypoint at index.
func (s *Store) Update(index int, p Waypoint) error {
	err := s.commit(func() error {
		if index < 0 || index >= len(s.waypoints) {
			return fmt.Errorf("update %d of %d: %w", index, len(s.waypoints), ErrIndexOutOfRange)
		}
		next := slices.Clone(s.waypoints)
		next[index] = p
		s.waypoints = next
		s.version++
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Debug().Int("index", index).Float64("lat", p.Latitude).Float64("lng", p.Longitude).Msg("waypoint updated")
	return nil
}

// Delete removes the waypoint at index; later waypoints shift down by one.
func (s *Store) Delete(index int) error {
	err := s.commit(func() error {
		if index < 0 || index >= len(s.waypoints) {
			return fmt.Errorf("delete %d of %d: %w", index, len(s.waypoints), ErrIndexOutOfRange)
		}
		s.waypoints = slices.Delete(slices.Clone(s.waypoints), index, index+1)
		s.version++
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Debug().Int("index", index).Msg("waypoint deleted")
	return nil
}

// ToggleMode flips target on or off and returns the resulting mode.
// Any other active mode is cleared.
func (s *Store) ToggleMode(target Mode) Mode {
	var mode Mode
	s.commit(func() error {
		s.mode = s.mode.Toggle(target)
		mode = s.mode
		return nil
	})
	s.log.Debug().Stringer("target", target).Stringer("mode", mode).Msg("mode toggled")
	return mode
}

// commit applies fn under the write lock and, if it succeeds, notifies
// listeners after the lock is released.
func (s *Store) commit(fn func() error) error {
	s.mu.Lock()
	prev := s.snapshotLocked()
	if err := fn(); err != nil {
		s.mu.Unlock()
		return err
	}
	next := s.snapshotLocked()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l(prev, next)
	}
	return nil
}

func (s *Store) snapshotLocked() State {
	return State{
		Waypoints: slices.Clone(s.waypoints),
		Mode:      s.mode,
		Version:   s.version,
	}
}
