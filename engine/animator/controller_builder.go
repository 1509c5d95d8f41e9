package animator

import "github.com/Carmen-Shannon/oxy-anim/engine/model"

// ControllerBuilderOption is a functional option for configuring a Controller during construction.
type ControllerBuilderOption func(*controller)

// WithSkeleton is an option builder that sets the skeleton used to complete joint poses.
// Without a skeleton, joint poses only cover the joints present in the sampled keyframes.
//
// Parameters:
//   - skeleton: the joint hierarchy and bind pose
//
// Returns:
//   - ControllerBuilderOption: a function that applies the skeleton option to a controller
func WithSkeleton(skeleton *model.Skeleton) ControllerBuilderOption {
	return func(c *controller) {
		c.skeleton = skeleton
	}
}

// WithSpeed is an option builder that sets the initial playback speed multiplier.
// Negative values are ignored.
//
// Parameters:
//   - speed: the speed multiplier
//
// Returns:
//   - ControllerBuilderOption: a function that applies the speed option to a controller
func WithSpeed(speed float32) ControllerBuilderOption {
	return func(c *controller) {
		if speed >= 0 {
			c.speed = speed
		}
	}
}

// WithClip is an option builder that starts the controller playing clip.
//
// Parameters:
//   - clip: the initial clip
//
// Returns:
//   - ControllerBuilderOption: a function that applies the clip option to a controller
func WithClip(clip *model.AnimationClip) ControllerBuilderOption {
	return func(c *controller) {
		c.clip = clip
	}
}
