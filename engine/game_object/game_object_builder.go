package game_object

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/behavior"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithEnabled sets whether Update advances the GameObject.
//
// Parameters:
//   - enabled: true to advance the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithModel sets the Model whose clips the GameObject plays.
//
// Parameters:
//   - m: the Model to associate
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Model
func WithModel(m model.Model) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.mdl = m
	}
}

// WithSkeleton sets a skeleton that overrides the model's for pose completion.
//
// Parameters:
//   - skeleton: the joint hierarchy
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the skeleton
func WithSkeleton(skeleton *model.Skeleton) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.skeleton = skeleton
	}
}

// WithController sets the playback component instead of the one built from the model.
//
// Parameters:
//   - c: the Controller
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the controller
func WithController(c animator.Controller) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.controller = c
	}
}

// WithSelector sets the clip selection component.
//
// Parameters:
//   - s: the Selector
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the selector
func WithSelector(s behavior.Selector) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.selector = s
	}
}

// WithInitialClip starts the GameObject playing a clip of its model.
//
// Parameters:
//   - name: the clip name
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial clip
func WithInitialClip(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.initialClip = name
	}
}

// WithPosition sets the translation of the GameObject's root transform.
//
// Parameters:
//   - x: the x position
//   - y: the y position
//   - z: the z position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.transform.Translation = mgl32.Vec3{x, y, z}
	}
}

// WithScale sets the scale of the GameObject's root transform.
//
// Parameters:
//   - sx: the x scale factor
//   - sy: the y scale factor
//   - sz: the z scale factor
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the scale
func WithScale(sx, sy, sz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.transform.Scale = mgl32.Vec3{sx, sy, sz}
	}
}

// WithRotation sets the rotation of the GameObject's root transform from Euler angles in
// radians, applied in X, Y, Z order.
//
// Parameters:
//   - rx: the x rotation angle
//   - ry: the y rotation angle
//   - rz: the z rotation angle
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation
func WithRotation(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.transform.Rotation = mgl32.AnglesToQuat(rx, ry, rz, mgl32.XYZ)
	}
}
