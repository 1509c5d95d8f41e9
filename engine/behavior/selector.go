package behavior

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-anim/engine/input"
)

var (
	// ErrNoRules is returned when a TableSelector is built without any rule.
	ErrNoRules = errors.New("selector has no rules")

	// ErrInvalidRule is returned when a rule names no clip or has a negative fade.
	ErrInvalidRule = errors.New("invalid selector rule")

	// ErrScript is returned when a selector script fails to compile or run.
	ErrScript = errors.New("selector script failed")
)

// Selection is the clip a Selector asks for on one tick.
type Selection struct {
	// Clip is the requested clip name. Empty means keep whatever is playing.
	Clip string

	// Fade is the crossfade duration in seconds used when Clip differs from the current clip.
	Fade float32
}

// Keep reports whether the selection leaves the current clip alone.
//
// Parameters:
//   - current: the clip currently playing
//
// Returns:
//   - bool: true if no transition is requested
func (s Selection) Keep(current string) bool {
	return s.Clip == "" || s.Clip == current
}

// Selector decides which clip an entity should play from the tick's input snapshot.
// Selectors only name clips; resolving names and driving the controller is up to the caller.
type Selector interface {
	// Select maps one input snapshot to a clip request.
	//
	// Parameters:
	//   - snap: the intents held this tick
	//   - current: the name of the clip currently playing, empty if none
	//
	// Returns:
	//   - Selection: the requested clip and fade
	//   - error: error if the selection could not be evaluated
	Select(snap input.Snapshot, current string) (Selection, error)
}

// SelectorFunc adapts a plain function to the Selector interface.
type SelectorFunc func(snap input.Snapshot, current string) (Selection, error)

var _ Selector = SelectorFunc(nil)

// Select calls f.
func (f SelectorFunc) Select(snap input.Snapshot, current string) (Selection, error) {
	return f(snap, current)
}
