package game_object

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/behavior"
	"github.com/Carmen-Shannon/oxy-anim/engine/input"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// ErrUnknownClip is returned when a requested clip is not in the object's model.
var ErrUnknownClip = errors.New("clip not found in model")

type gameObject struct {
	id        uint64
	enabled   atomic.Bool
	mdl       model.Model
	skeleton  *model.Skeleton
	transform model.Transform

	controller animator.Controller
	selector   behavior.Selector

	initialClip string
	missing     string
}

// GameObject defines the interface for an animated entity built by composition.
//
// Animation capability comes from optional components rather than from the object's type: a Model
// supplies named clips and a Skeleton, a Controller plays them and a Selector picks which clip to
// play from each tick's input snapshot. An object with no Controller is inert; one with no
// Selector keeps playing whatever its Controller was told to play.
//
// A GameObject is not safe for concurrent use, except for Enabled and SetEnabled.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Enabled returns whether Update advances this object.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Model returns the Model whose clips this object plays, or nil if not set.
	//
	// Returns:
	//   - model.Model: the associated model or nil
	Model() model.Model

	// Skeleton returns the skeleton poses are completed against: the one set explicitly,
	// otherwise the model's, otherwise nil.
	//
	// Returns:
	//   - *model.Skeleton: the skeleton or nil
	Skeleton() *model.Skeleton

	// Controller returns the playback component, or nil.
	//
	// Returns:
	//   - animator.Controller: the controller or nil
	Controller() animator.Controller

	// Selector returns the clip selection component, or nil.
	//
	// Returns:
	//   - behavior.Selector: the selector or nil
	Selector() behavior.Selector

	// Transform returns the object's root transform in world space.
	//
	// Returns:
	//   - model.Transform: the root transform
	Transform() model.Transform

	// CurrentClip returns the name of the clip the object is heading to: the incoming clip
	// during a crossfade, otherwise the active clip, or "" if nothing plays.
	//
	// Returns:
	//   - string: the clip name
	CurrentClip() string

	// Pose returns the controller's most recent pose, or nil.
	//
	// Returns:
	//   - *model.Pose: the pose or nil
	Pose() *model.Pose

	// Play switches to a clip of the object's model immediately.
	//
	// Parameters:
	//   - name: the clip name
	//
	// Returns:
	//   - error: ErrUnknownClip if the model has no such clip or no controller is set
	Play(name string) error

	// CrossfadeTo blends to a clip of the object's model over fade seconds.
	//
	// Parameters:
	//   - name: the clip name
	//   - fade: the fade duration in seconds
	//
	// Returns:
	//   - error: ErrUnknownClip if the model has no such clip or no controller is set, or the controller's error
	CrossfadeTo(name string, fade float32) error

	// Update runs one tick: asks the selector for a clip, crossfades to it when it differs from
	// CurrentClip, then advances the controller by dt.
	//
	// A selector failure or a selection naming a clip the model lacks is logged and the current
	// clip keeps playing, so a bad selection never stalls playback.
	//
	// Parameters:
	//   - dt: elapsed time since the previous tick in seconds
	//   - snap: the intents held this tick
	//
	// Returns:
	//   - *model.Pose: the pose after advancing, nil when disabled, stopped or without a controller
	//   - error: animator.ErrNegativeDelta if dt is negative or infinite, leaving the object unchanged
	Update(dt float32, snap input.Snapshot) (*model.Pose, error)

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// SetEnabled sets whether Update advances this object.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetModel swaps the model clips are resolved from, for example after a hot reload.
	// The controller keeps playing the clip it already holds until the next transition.
	//
	// Parameters:
	//   - m: the Model to associate
	SetModel(m model.Model)

	// SetController replaces the playback component. Pass nil to detach.
	//
	// Parameters:
	//   - c: the Controller
	SetController(c animator.Controller)

	// SetSelector replaces the clip selection component. Pass nil to detach.
	//
	// Parameters:
	//   - s: the Selector
	SetSelector(s behavior.Selector)

	// SetTransform sets the object's root transform.
	//
	// Parameters:
	//   - t: the root transform
	SetTransform(t model.Transform)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
//
// Objects start enabled at the identity transform. When a model is set and no controller is
// supplied, a controller bound to the object's skeleton is created. WithInitialClip starts it
// playing; an initial clip the model lacks is logged and ignored.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		transform: model.IdentityTransform(),
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}

	if obj.controller == nil && obj.mdl != nil {
		obj.controller = animator.NewController(animator.WithSkeleton(obj.Skeleton()))
	}
	if obj.initialClip != "" {
		if err := obj.Play(obj.initialClip); err != nil {
			log.Printf("[GameObject] %d: initial clip: %v", obj.id, err)
		}
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Model() model.Model {
	return g.mdl
}

func (g *gameObject) Skeleton() *model.Skeleton {
	if g.skeleton != nil {
		return g.skeleton
	}
	if g.mdl != nil {
		return g.mdl.Skeleton()
	}
	return nil
}

func (g *gameObject) Controller() animator.Controller {
	return g.controller
}

func (g *gameObject) Selector() behavior.Selector {
	return g.selector
}

func (g *gameObject) Transform() model.Transform {
	return g.transform
}

func (g *gameObject) CurrentClip() string {
	if g.controller == nil {
		return ""
	}
	if in := g.controller.IncomingClip(); in != nil {
		return in.Name()
	}
	if c := g.controller.Clip(); c != nil && g.controller.State() != animator.StateStopped {
		return c.Name()
	}
	return ""
}

func (g *gameObject) Pose() *model.Pose {
	if g.controller == nil {
		return nil
	}
	return g.controller.Pose()
}

func (g *gameObject) Play(name string) error {
	clip, err := g.resolve(name)
	if err != nil {
		return err
	}
	return g.controller.Play(clip)
}

func (g *gameObject) CrossfadeTo(name string, fade float32) error {
	clip, err := g.resolve(name)
	if err != nil {
		return err
	}
	return g.controller.CrossfadeTo(clip, fade)
}

func (g *gameObject) Update(dt float32, snap input.Snapshot) (*model.Pose, error) {
	if !(dt >= 0) || math.IsInf(float64(dt), 1) {
		return nil, fmt.Errorf("object %d: advance by %v: %w", g.id, dt, animator.ErrNegativeDelta)
	}
	if !g.Enabled() || g.controller == nil {
		return nil, nil
	}

	if g.selector != nil {
		g.applySelection(snap)
	}
	return g.controller.Advance(dt)
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetModel(m model.Model) {
	g.mdl = m
	g.missing = ""
}

func (g *gameObject) SetController(c animator.Controller) {
	g.controller = c
}

func (g *gameObject) SetSelector(s behavior.Selector) {
	g.selector = s
}

func (g *gameObject) SetTransform(t model.Transform) {
	g.transform = t
}

// applySelection asks the selector for a clip and starts the transition. Failures are logged
// once per distinct cause so a stuck selection does not flood the log every tick.
func (g *gameObject) applySelection(snap input.Snapshot) {
	current := g.CurrentClip()
	sel, err := g.selector.Select(snap, current)
	if err != nil {
		g.warn(err.Error(), "[GameObject] %d: selector: %v", g.id, err)
		return
	}
	if sel.Keep(current) {
		return
	}

	if err := g.CrossfadeTo(sel.Clip, sel.Fade); err != nil {
		g.warn(sel.Clip, "[GameObject] %d: transition to %q: %v", g.id, sel.Clip, err)
		return
	}
	g.missing = ""
}

func (g *gameObject) warn(key, format string, args ...any) {
	if g.missing == key {
		return
	}
	g.missing = key
	log.Printf(format, args...)
}

func (g *gameObject) resolve(name string) (*model.AnimationClip, error) {
	if g.controller == nil || g.mdl == nil {
		return nil, fmt.Errorf("object %d has no model or controller for %q: %w", g.id, name, ErrUnknownClip)
	}
	clip := g.mdl.Clip(name)
	if clip == nil {
		return nil, fmt.Errorf("model %q clip %q: %w", g.mdl.Name(), name, ErrUnknownClip)
	}
	return clip, nil
}
