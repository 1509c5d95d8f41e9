package model

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Skeleton is a read-only joint hierarchy with a bind pose per joint.
// Joints are stored in topological order, parents before children, so a single forward
// pass can resolve model-space transforms. Several parentless joints are allowed and are
// treated as children of an implicit synthetic root.
type Skeleton struct {
	joints       []Joint
	parentIndex  []int32
	rootIndices  []int32
	jointToIndex map[JointID]int32
}

// NewSkeleton validates a joint list and builds a topologically sorted skeleton.
// Joints may be supplied in any order. Inverse bind matrices left as the zero matrix
// are derived from the bind poses.
//
// Parameters:
//   - joints: the skeleton's joints
//
// Returns:
//   - *Skeleton: the constructed skeleton
//   - error: ErrEmptySkeleton, ErrDuplicateJoint, ErrUnknownParent or ErrJointCycle if the hierarchy is malformed
func NewSkeleton(joints []Joint) (*Skeleton, error) {
	if len(joints) == 0 {
		return nil, ErrEmptySkeleton
	}

	byID := make(map[JointID]int, len(joints))
	for i, j := range joints {
		if _, dup := byID[j.ID]; dup {
			return nil, fmt.Errorf("joint %q: %w", j.ID, ErrDuplicateJoint)
		}
		byID[j.ID] = i
	}

	// Children map over the caller's indices; roots seed the BFS.
	children := make(map[int][]int, len(joints))
	var roots []int
	for i, j := range joints {
		if j.Parent == "" {
			roots = append(roots, i)
			continue
		}
		p, ok := byID[j.Parent]
		if !ok {
			return nil, fmt.Errorf("joint %q parent %q: %w", j.ID, j.Parent, ErrUnknownParent)
		}
		children[p] = append(children[p], i)
	}

	// BFS from roots gives parents-before-children order. Any joint not reached hangs off a cycle.
	order := make([]int, 0, len(joints))
	queue := append([]int(nil), roots...)
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		order = append(order, idx)
		queue = append(queue, children[idx]...)
	}
	if len(order) != len(joints) {
		return nil, fmt.Errorf("%d of %d joints unreachable from a root: %w", len(joints)-len(order), len(joints), ErrJointCycle)
	}

	s := &Skeleton{
		joints:       make([]Joint, len(joints)),
		parentIndex:  make([]int32, len(joints)),
		jointToIndex: make(map[JointID]int32, len(joints)),
	}
	for newIdx, oldIdx := range order {
		s.joints[newIdx] = joints[oldIdx]
		s.jointToIndex[joints[oldIdx].ID] = int32(newIdx)
	}
	for i, j := range s.joints {
		if j.Parent == "" {
			s.parentIndex[i] = -1
			s.rootIndices = append(s.rootIndices, int32(i))
			continue
		}
		s.parentIndex[i] = s.jointToIndex[j.Parent]
	}

	// Derive missing inverse bind matrices from the model-space bind pose.
	bindModel := make([]mgl32.Mat4, len(s.joints))
	for i := range s.joints {
		local := s.joints[i].BindPose.Mat4()
		if p := s.parentIndex[i]; p >= 0 {
			bindModel[i] = bindModel[p].Mul4(local)
		} else {
			bindModel[i] = local
		}
		if s.joints[i].InverseBindMatrix == (mgl32.Mat4{}) {
			s.joints[i].InverseBindMatrix = bindModel[i].Inv()
		}
	}

	return s, nil
}

// JointCount returns the number of joints in the skeleton.
func (s *Skeleton) JointCount() int {
	return len(s.joints)
}

// JointAt returns the joint at a topological index.
//
// Parameters:
//   - index: the joint index in [0, JointCount())
//
// Returns:
//   - Joint: the joint
func (s *Skeleton) JointAt(index int) Joint {
	return s.joints[index]
}

// ParentIndex returns the parent's topological index for the joint at index, or -1 for roots.
//
// Parameters:
//   - index: the joint index in [0, JointCount())
//
// Returns:
//   - int32: the parent index, or -1
func (s *Skeleton) ParentIndex(index int) int32 {
	return s.parentIndex[index]
}

// RootIndices returns the indices of the parentless joints.
func (s *Skeleton) RootIndices() []int32 {
	return s.rootIndices
}

// Index looks up the topological index of a joint.
//
// Parameters:
//   - id: the joint identifier
//
// Returns:
//   - int32: the joint index
//   - bool: true if the joint belongs to the skeleton
func (s *Skeleton) Index(id JointID) (int32, bool) {
	i, ok := s.jointToIndex[id]
	return i, ok
}

// Parent returns the parent identifier of a joint.
//
// Parameters:
//   - id: the joint identifier
//
// Returns:
//   - JointID: the parent identifier, empty for roots
//   - bool: true if the joint belongs to the skeleton
func (s *Skeleton) Parent(id JointID) (JointID, bool) {
	i, ok := s.jointToIndex[id]
	if !ok {
		return "", false
	}
	return s.joints[i].Parent, true
}

// BindPose returns the rest transform of a joint.
//
// Parameters:
//   - id: the joint identifier
//
// Returns:
//   - Transform: the bind pose, or the identity transform if the joint is unknown
//   - bool: true if the joint belongs to the skeleton
func (s *Skeleton) BindPose(id JointID) (Transform, bool) {
	i, ok := s.jointToIndex[id]
	if !ok {
		return IdentityTransform(), false
	}
	return s.joints[i].BindPose, true
}

// JointIDs returns every joint identifier in topological order.
func (s *Skeleton) JointIDs() []JointID {
	ids := make([]JointID, len(s.joints))
	for i, j := range s.joints {
		ids[i] = j.ID
	}
	return ids
}

// BindPosePose builds a joint pose holding every joint's bind transform.
//
// Returns:
//   - Pose: the rest pose of the skeleton
func (s *Skeleton) BindPosePose() Pose {
	p := Pose{Kind: PayloadJoints, Joints: make(map[JointID]Transform, len(s.joints))}
	for _, j := range s.joints {
		p.Joints[j.ID] = j.BindPose
	}
	return p
}
