package input

import (
	"maps"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-anim/common"
)

// KeySource answers whether a key is currently held. Key codes follow GLFW.
type KeySource interface {
	KeyPressed(keyCode uint32) bool
}

// Bindings maps each intent to the key codes that trigger it.
type Bindings map[Intent][]uint32

// DefaultBindings returns WASD plus arrow keys for planar movement, Q or Space for up and
// E or Left Control for down.
//
// Returns:
//   - Bindings: a fresh copy of the default bindings
func DefaultBindings() Bindings {
	return Bindings{
		IntentForward: {common.KeyW, common.KeyUp},
		IntentBack:    {common.KeyS, common.KeyDown},
		IntentLeft:    {common.KeyA, common.KeyLeft},
		IntentRight:   {common.KeyD, common.KeyRight},
		IntentUp:      {common.KeyQ, common.KeySpace},
		IntentDown:    {common.KeyE, common.KeyLeftCtrl},
	}
}

// Bind returns a copy of the bindings with an intent bound to the given keys, replacing any
// previous keys for it.
//
// Parameters:
//   - intent: the intent to rebind
//   - keys: the key codes that trigger it
//
// Returns:
//   - Bindings: the updated copy
func (b Bindings) Bind(intent Intent, keys ...uint32) Bindings {
	out := maps.Clone(b)
	if out == nil {
		out = make(Bindings)
	}
	out[intent] = slices.Clone(keys)
	return out
}

// Poll captures the intents whose bound keys are held.
//
// Parameters:
//   - src: the key source to query
//   - b: the key bindings
//
// Returns:
//   - Snapshot: the held intents
func Poll(src KeySource, b Bindings) Snapshot {
	var s Snapshot
	for intent, keys := range b {
		for _, k := range keys {
			if src.KeyPressed(k) {
				s = s.With(intent)
				break
			}
		}
	}
	return s
}

// KeyState tracks held keys from key down and key up callbacks. Its Press and Release methods
// match the window key callback signature.
type KeyState struct {
	mu   sync.Mutex
	down map[uint32]bool
}

var _ KeySource = &KeyState{}

// NewKeyState creates an empty key tracker.
//
// Returns:
//   - *KeyState: the tracker
func NewKeyState() *KeyState {
	return &KeyState{down: make(map[uint32]bool)}
}

// Press marks a key held.
func (k *KeyState) Press(keyCode uint32) {
	k.mu.Lock()
	k.down[keyCode] = true
	k.mu.Unlock()
}

// Release marks a key released.
func (k *KeyState) Release(keyCode uint32) {
	k.mu.Lock()
	delete(k.down, keyCode)
	k.mu.Unlock()
}

// Reset releases every key, as after the window loses focus.
func (k *KeyState) Reset() {
	k.mu.Lock()
	clear(k.down)
	k.mu.Unlock()
}

func (k *KeyState) KeyPressed(keyCode uint32) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.down[keyCode]
}
