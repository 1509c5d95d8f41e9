package model

import (
	"fmt"
	"iter"
	"maps"
	"slices"
)

// KeyFrame is an immutable snapshot of an animated value at one timestamp.
// A scalar keyframe is the single-channel case of the general joint-map keyframe;
// both share this one type and are told apart by Kind.
type KeyFrame struct {
	timeStamp float32
	kind      PayloadKind
	value     float32
	joints    map[JointID]Transform
}

// NewScalarKeyFrame creates a single-channel keyframe.
//
// Parameters:
//   - timeStamp: seconds from clip start (must be >= 0)
//   - value: the scalar value at this instant
//
// Returns:
//   - KeyFrame: the constructed keyframe
//   - error: ErrNegativeTimeStamp if timeStamp is negative or NaN
func NewScalarKeyFrame(timeStamp, value float32) (KeyFrame, error) {
	if !(timeStamp >= 0) {
		return KeyFrame{}, fmt.Errorf("%w: %v", ErrNegativeTimeStamp, timeStamp)
	}
	return KeyFrame{timeStamp: timeStamp, kind: PayloadScalar, value: value}, nil
}

// NewJointKeyFrame creates a keyframe holding bone-space transforms for a set of joints.
// The map may be sparse: joints it omits resolve to the skeleton's bind pose at sample time.
// The map is copied, so later changes by the caller do not affect the keyframe.
//
// Parameters:
//   - timeStamp: seconds from clip start (must be >= 0)
//   - joints: the joint transforms at this instant
//
// Returns:
//   - KeyFrame: the constructed keyframe
//   - error: ErrNegativeTimeStamp if timeStamp is negative or NaN
func NewJointKeyFrame(timeStamp float32, joints map[JointID]Transform) (KeyFrame, error) {
	if !(timeStamp >= 0) {
		return KeyFrame{}, fmt.Errorf("%w: %v", ErrNegativeTimeStamp, timeStamp)
	}
	return KeyFrame{timeStamp: timeStamp, kind: PayloadJoints, joints: maps.Clone(joints)}, nil
}

// TimeStamp returns the keyframe time in seconds from clip start.
func (k KeyFrame) TimeStamp() float32 {
	return k.timeStamp
}

// Kind returns the payload kind of the keyframe.
func (k KeyFrame) Kind() PayloadKind {
	return k.kind
}

// Value returns the scalar payload. It is zero for joint keyframes.
func (k KeyFrame) Value() float32 {
	return k.value
}

// Joint looks up the transform stored for a joint.
//
// Parameters:
//   - id: the joint to look up
//
// Returns:
//   - Transform: the stored transform, or the zero Transform if absent
//   - bool: true if the keyframe defines the joint
func (k KeyFrame) Joint(id JointID) (Transform, bool) {
	t, ok := k.joints[id]
	return t, ok
}

// JointCount returns how many joints the keyframe defines.
func (k KeyFrame) JointCount() int {
	return len(k.joints)
}

// Joints iterates the joint transforms stored in the keyframe, in no particular order.
//
// Returns:
//   - iter.Seq2[JointID, Transform]: an iterator over the stored joints
func (k KeyFrame) Joints() iter.Seq2[JointID, Transform] {
	return maps.All(k.joints)
}

// JointIDs returns the identifiers of the joints the keyframe defines, sorted.
func (k KeyFrame) JointIDs() []JointID {
	return slices.Sorted(maps.Keys(k.joints))
}
