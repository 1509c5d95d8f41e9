package model

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// --- Transform & Skeleton Types ---

// JointID identifies a joint within a skeleton and within joint-map keyframes.
type JointID string

// Transform represents a decomposed bone-space transform used for interpolation.
type Transform struct {
	// Translation is the position offset relative to the parent joint.
	Translation mgl32.Vec3

	// Rotation is the orientation as a unit quaternion.
	Rotation mgl32.Quat

	// Scale is the scale factor along each axis.
	Scale mgl32.Vec3
}

// IdentityTransform returns the transform with no translation, no rotation and unit scale.
//
// Returns:
//   - Transform: the identity transform
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Joint describes a single joint of a skeleton hierarchy as supplied at model-load time.
type Joint struct {
	// ID is the joint's identifier, unique within its skeleton.
	ID JointID

	// Parent is the parent joint's identifier. Empty for root joints.
	Parent JointID

	// BindPose is the joint's rest transform relative to its parent. It is the value a pose
	// takes for this joint when no keyframe overrides it.
	BindPose Transform

	// InverseBindMatrix transforms from model space to joint space at bind pose.
	// When left as the zero matrix the skeleton derives it from the bind poses.
	InverseBindMatrix mgl32.Mat4
}

// --- Animation Types ---

// PayloadKind identifies the shape of the values carried by keyframes and poses.
// A clip has exactly one payload kind for its whole timeline.
type PayloadKind int

const (
	// PayloadScalar is a single-channel curve, such as a morph factor.
	PayloadScalar PayloadKind = iota

	// PayloadJoints is a mapping from joint identifier to bone-space transform.
	PayloadJoints
)

// String returns a readable name for the payload kind.
func (k PayloadKind) String() string {
	switch k {
	case PayloadScalar:
		return "scalar"
	case PayloadJoints:
		return "joints"
	default:
		return fmt.Sprintf("PayloadKind(%d)", int(k))
	}
}

// LoopPolicy selects how a query time outside [0, duration] maps back onto a clip.
type LoopPolicy int

const (
	// LoopClamp holds the first keyframe before the clip and the last keyframe after it.
	LoopClamp LoopPolicy = iota

	// LoopRepeat wraps time modulo the clip duration.
	LoopRepeat

	// LoopPingPong plays forward then backward, reflecting time at each end of the clip.
	LoopPingPong
)

// String returns the policy name used by clip asset documents.
func (p LoopPolicy) String() string {
	switch p {
	case LoopClamp:
		return "clamp"
	case LoopRepeat:
		return "loop"
	case LoopPingPong:
		return "pingpong"
	default:
		return fmt.Sprintf("LoopPolicy(%d)", int(p))
	}
}

// ParseLoopPolicy parses a policy name as written in clip asset documents.
// Matching is case-insensitive; the empty string selects LoopClamp.
//
// Parameters:
//   - s: the policy name ("clamp", "loop", "pingpong")
//
// Returns:
//   - LoopPolicy: the parsed policy
//   - error: ErrUnknownLoopPolicy if the name is not recognised
func ParseLoopPolicy(s string) (LoopPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clamp":
		return LoopClamp, nil
	case "loop", "repeat":
		return LoopRepeat, nil
	case "pingpong", "ping_pong", "ping-pong":
		return LoopPingPong, nil
	default:
		return LoopClamp, fmt.Errorf("%w: %q", ErrUnknownLoopPolicy, s)
	}
}
