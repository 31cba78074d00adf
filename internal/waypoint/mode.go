package waypoint

import "fmt"

// Mode is the exclusive interaction mode of the editor.
type Mode int

const (
	Idle Mode = iota
	Adding
	Editing
	Deleting
)

var modeNames = [...]string{
	Idle:     "idle",
	Adding:   "adding",
	Editing:  "editing",
	Deleting: "deleting",
}

func (m Mode) String() string {
	if m < Idle || m > Deleting {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode parses the text form of a mode.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return Idle, fmt.Errorf("unknown mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Toggle returns the mode after the user toggles target while in m.
// Toggling the active mode cancels it; toggling any other mode replaces it.
func (m Mode) Toggle(target Mode) Mode {
	if m == target {
		return Idle
	}
	return target
}
