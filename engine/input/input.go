package input

import (
	"fmt"
	"strings"
)

// Intent is one discrete directional movement intent.
type Intent uint8

const (
	IntentForward Intent = iota
	IntentBack
	IntentLeft
	IntentRight
	IntentUp
	IntentDown

	intentCount
)

var intentNames = [intentCount]string{"forward", "back", "left", "right", "up", "down"}

// Intents lists every intent in declaration order.
var Intents = []Intent{IntentForward, IntentBack, IntentLeft, IntentRight, IntentUp, IntentDown}

// String returns the intent name used by scripts and logs.
func (i Intent) String() string {
	if i < intentCount {
		return intentNames[i]
	}
	return fmt.Sprintf("Intent(%d)", uint8(i))
}

// ParseIntent parses an intent name. Matching is case-insensitive.
//
// Parameters:
//   - s: the intent name ("forward", "back", "left", "right", "up", "down")
//
// Returns:
//   - Intent: the parsed intent
//   - error: error if the name is not recognised
func ParseIntent(s string) (Intent, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range intentNames {
		if name == s {
			return Intent(i), nil
		}
	}
	return 0, fmt.Errorf("unknown input intent %q", s)
}

// Snapshot is the set of intents held during one tick. It is a plain value, captured once per
// tick and passed explicitly to whatever consumes input, so nothing downstream reaches into a
// window or a global key state.
type Snapshot uint8

// NewSnapshot builds a snapshot holding the given intents.
//
// Parameters:
//   - intents: the held intents
//
// Returns:
//   - Snapshot: the snapshot
func NewSnapshot(intents ...Intent) Snapshot {
	var s Snapshot
	for _, i := range intents {
		s = s.With(i)
	}
	return s
}

// Has reports whether an intent is held.
func (s Snapshot) Has(i Intent) bool {
	return i < intentCount && s&(1<<i) != 0
}

// With returns a copy of the snapshot with an intent held.
func (s Snapshot) With(i Intent) Snapshot {
	if i >= intentCount {
		return s
	}
	return s | 1<<i
}

// Without returns a copy of the snapshot with an intent released.
func (s Snapshot) Without(i Intent) Snapshot {
	return s &^ (1 << i)
}

func (s Snapshot) Forward() bool { return s.Has(IntentForward) }
func (s Snapshot) Back() bool    { return s.Has(IntentBack) }
func (s Snapshot) Left() bool    { return s.Has(IntentLeft) }
func (s Snapshot) Right() bool   { return s.Has(IntentRight) }
func (s Snapshot) Up() bool      { return s.Has(IntentUp) }
func (s Snapshot) Down() bool    { return s.Has(IntentDown) }

// Moving reports whether any planar intent is held.
func (s Snapshot) Moving() bool {
	return s.Forward() || s.Back() || s.Left() || s.Right()
}

// Idle reports whether no intent is held.
func (s Snapshot) Idle() bool {
	return s == 0
}

// Held returns the held intents in declaration order.
func (s Snapshot) Held() []Intent {
	var held []Intent
	for _, i := range Intents {
		if s.Has(i) {
			held = append(held, i)
		}
	}
	return held
}

// String joins the held intent names with "+", or returns "idle".
func (s Snapshot) String() string {
	held := s.Held()
	if len(held) == 0 {
		return "idle"
	}
	names := make([]string, len(held))
	for i, intent := range held {
		names[i] = intent.String()
	}
	return strings.Join(names, "+")
}
