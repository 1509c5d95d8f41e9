package model

import "maps"

// Pose is the fully resolved result of sampling a clip at one instant: a single scalar for
// scalar clips, or one transform per joint for joint clips.
// A Pose is owned by whoever asked for it and is normally reused frame to frame.
type Pose struct {
	// Kind is the payload kind of the sampled clip.
	Kind PayloadKind

	// Scalar is the sampled value for scalar clips.
	Scalar float32

	// Joints maps each joint to its sampled bone-space transform for joint clips.
	Joints map[JointID]Transform
}

// Reset prepares the pose for reuse with the given kind, keeping the joint map's storage.
//
// Parameters:
//   - kind: the payload kind the pose will hold
func (p *Pose) Reset(kind PayloadKind) {
	p.Kind = kind
	p.Scalar = 0
	if kind == PayloadJoints {
		if p.Joints == nil {
			p.Joints = make(map[JointID]Transform)
		} else {
			clear(p.Joints)
		}
		return
	}
	clear(p.Joints)
}

// Joint looks up the sampled transform for a joint.
//
// Parameters:
//   - id: the joint identifier
//
// Returns:
//   - Transform: the sampled transform
//   - bool: true if the pose defines the joint
func (p *Pose) Joint(id JointID) (Transform, bool) {
	t, ok := p.Joints[id]
	return t, ok
}

// Clone returns a deep copy of the pose that shares no storage with the original.
func (p *Pose) Clone() Pose {
	return Pose{Kind: p.Kind, Scalar: p.Scalar, Joints: maps.Clone(p.Joints)}
}
