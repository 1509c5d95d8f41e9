package model

import "errors"

// Structural errors. These indicate a corrupt asset and are returned from constructors;
// they are never repaired silently.
var (
	// ErrNegativeTimeStamp is returned when a keyframe is constructed with a negative or NaN timestamp.
	ErrNegativeTimeStamp = errors.New("keyframe timestamp must be non-negative")

	// ErrEmptyClip is returned when a clip is constructed without keyframes.
	ErrEmptyClip = errors.New("clip has no keyframes")

	// ErrUnorderedKeyFrames is returned when clip keyframes are not sorted ascending by timestamp.
	ErrUnorderedKeyFrames = errors.New("clip keyframes are not in ascending timestamp order")

	// ErrMixedPayload is returned when keyframes of one clip carry different payload kinds.
	ErrMixedPayload = errors.New("clip keyframes mix scalar and joint payloads")

	// ErrUnknownLoopPolicy is returned when a loop policy name cannot be parsed.
	ErrUnknownLoopPolicy = errors.New("unknown loop policy")

	// ErrEmptySkeleton is returned when a skeleton is constructed without joints.
	ErrEmptySkeleton = errors.New("skeleton has no joints")

	// ErrDuplicateJoint is returned when two skeleton joints share an identifier.
	ErrDuplicateJoint = errors.New("duplicate joint identifier")

	// ErrUnknownParent is returned when a joint names a parent that is not part of the skeleton.
	ErrUnknownParent = errors.New("joint parent is not part of the skeleton")

	// ErrJointCycle is returned when the parent graph of a skeleton contains a cycle.
	ErrJointCycle = errors.New("joint hierarchy contains a cycle")
)
