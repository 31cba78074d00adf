package waypoint

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(points ...Waypoint) *Store {
	s := NewStore(zerolog.Nop())
	for _, p := range points {
		s.Add(p)
	}
	return s
}

func TestStore_AddPreservesOrder(t *testing.T) {
	points := []Waypoint{
		New(13.80, 100.55),
		New(13.81, 100.56),
		New(13.80, 100.55),
		New(-90, 180),
	}
	s := newTestStore(points...)

	assert.Equal(t, len(points), s.Len())
	assert.Equal(t, points, s.Waypoints())
	assert.Equal(t, uint64(len(points)), s.Snapshot().Version)
}

func TestStore_Update(t *testing.T) {
	s := newTestStore(New(1, 1), New(2, 2), New(3, 3))

	require.NoError(t, s.Update(1, New(9, 9)))

	assert.Equal(t, []Waypoint{New(1, 1), New(9, 9), New(3, 3)}, s.Waypoints())
}

func TestStore_UpdateOutOfRange(t *testing.T) {
	s := newTestStore(New(1, 1))
	calls := 0
	s.Subscribe(func(prev, next State) { calls++ })

	for _, idx := range []int{-1, 1, 5} {
		err := s.Update(idx, New(0, 0))
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "index %d", idx)
	}
	assert.Equal(t, []Waypoint{New(1, 1)}, s.Waypoints())
	assert.Zero(t, calls)
}

func TestStore_Delete(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  []Waypoint
	}{
		{"first", 0, []Waypoint{New(2, 2), New(3, 3)}},
		{"middle", 1, []Waypoint{New(1, 1), New(3, 3)}},
		{"last", 2, []Waypoint{New(1, 1), New(2, 2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(New(1, 1), New(2, 2), New(3, 3))
			require.NoError(t, s.Delete(tt.index))
			assert.Equal(t, tt.want, s.Waypoints())
		})
	}
}

func TestStore_DeleteOutOfRange(t *testing.T) {
	s := newTestStore()
	assert.ErrorIs(t, s.Delete(0), ErrIndexOutOfRange)

	s.Add(New(1, 1))
	assert.ErrorIs(t, s.Delete(1), ErrIndexOutOfRange)
	assert.Equal(t, 1, s.Len())
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	s := newTestStore(New(1, 1))
	snap := s.Snapshot()
	snap.Waypoints[0] = New(5, 5)

	assert.Equal(t, New(1, 1), s.Waypoints()[0])
}

func TestStore_ListenersSeeCommittedState(t *testing.T) {
	s := newTestStore(New(1, 1))

	var got []State
	s.Subscribe(func(prev, next State) {
		// listeners run outside the lock, so reading back is safe
		assert.Equal(t, next.Waypoints, s.Waypoints())
		got = append(got, prev, next)
	})

	s.Add(New(2, 2))
	require.Len(t, got, 2)
	assert.Len(t, got[0].Waypoints, 1)
	assert.Len(t, got[1].Waypoints, 2)
	assert.Equal(t, got[0].Version+1, got[1].Version)
}

func TestStore_ToggleMode(t *testing.T) {
	s := newTestStore()
	assert.Equal(t, Idle, s.Mode())

	assert.Equal(t, Adding, s.ToggleMode(Adding))
	assert.Equal(t, Idle, s.ToggleMode(Adding))

	s.ToggleMode(Adding)
	assert.Equal(t, Deleting, s.ToggleMode(Deleting))
	assert.Equal(t, Deleting, s.Mode())

	// toggling does not touch the sequence version
	assert.Zero(t, s.Snapshot().Version)
}

func TestLineString(t *testing.T) {
	assert.Equal(t, orb.LineString{}, LineString(nil))

	ls := LineString([]Waypoint{New(13.80, 100.55), New(13.90, 100.60)})
	assert.Equal(t, orb.LineString{{100.55, 13.80}, {100.60, 13.90}}, ls)
}
