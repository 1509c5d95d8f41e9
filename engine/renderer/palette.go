package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrNotJointPose is returned when a scalar pose is given to a skinning palette.
var ErrNotJointPose = errors.New("pose has no joint payload")

// Palette turns joint poses into skinning matrices for one skeleton.
//
// Each Update resolves bone-space transforms to model space in a single parent-first pass over
// the skeleton, then multiplies each by its joint's inverse bind matrix. At the bind pose every
// skinning matrix is the identity. Joints absent from the pose use their bind transform.
//
// Matrices are laid out as the skeleton's topological order, column-major, 64 bytes each, which
// matches a WGSL array<mat4x4<f32>> storage buffer.
type Palette struct {
	skeleton *model.Skeleton
	model    []mgl32.Mat4
	skin     []mgl32.Mat4
}

// NewPalette allocates a palette for a skeleton, initialized to the bind pose.
//
// Parameters:
//   - skeleton: the joint hierarchy
//
// Returns:
//   - *Palette: the palette
func NewPalette(skeleton *model.Skeleton) *Palette {
	n := skeleton.JointCount()
	p := &Palette{
		skeleton: skeleton,
		model:    make([]mgl32.Mat4, n),
		skin:     make([]mgl32.Mat4, n),
	}
	bind := skeleton.BindPosePose()
	_ = p.Update(&bind, mgl32.Ident4())
	return p
}

// Skeleton returns the skeleton the palette was built for.
func (p *Palette) Skeleton() *model.Skeleton {
	return p.skeleton
}

// Len returns the number of matrices in the palette.
func (p *Palette) Len() int {
	return len(p.skin)
}

// Update recomputes the palette from a joint pose.
//
// Parameters:
//   - pose: the sampled joint pose
//   - root: the model-to-world matrix applied above every root joint, mgl32.Ident4() for model space
//
// Returns:
//   - error: ErrNotJointPose if pose is nil or a scalar pose, leaving the palette unchanged
func (p *Palette) Update(pose *model.Pose, root mgl32.Mat4) error {
	if pose == nil || pose.Kind != model.PayloadJoints {
		return ErrNotJointPose
	}

	for i := range p.skin {
		joint := p.skeleton.JointAt(i)
		local, ok := pose.Joints[joint.ID]
		if !ok {
			local = joint.BindPose
		}

		parent := root
		if pi := p.skeleton.ParentIndex(i); pi >= 0 {
			parent = p.model[pi]
		}
		p.model[i] = parent.Mul4(local.Mat4())
		p.skin[i] = p.model[i].Mul4(joint.InverseBindMatrix)
	}
	return nil
}

// SkinMatrix returns the skinning matrix of the joint at a topological index.
//
// Parameters:
//   - index: the joint index in [0, Len())
//
// Returns:
//   - mgl32.Mat4: model-space transform times inverse bind matrix
func (p *Palette) SkinMatrix(index int) mgl32.Mat4 {
	return p.skin[index]
}

// ModelMatrix returns the model-space transform of the joint at a topological index.
//
// Parameters:
//   - index: the joint index in [0, Len())
//
// Returns:
//   - mgl32.Mat4: the joint's transform relative to the root matrix passed to Update
func (p *Palette) ModelMatrix(index int) mgl32.Mat4 {
	return p.model[index]
}

// Joint looks up a joint's model-space transform by identifier.
//
// Parameters:
//   - id: the joint identifier
//
// Returns:
//   - mgl32.Mat4: the model-space transform
//   - error: error if the joint is not in the skeleton
func (p *Palette) Joint(id model.JointID) (mgl32.Mat4, error) {
	i, ok := p.skeleton.Index(id)
	if !ok {
		return mgl32.Mat4{}, fmt.Errorf("joint %q not in skeleton", id)
	}
	return p.model[i], nil
}

// Bytes returns a byte view of the skinning matrices for GPU upload.
// The view aliases the palette and changes on the next Update.
//
// Returns:
//   - []byte: Len()*64 bytes
func (p *Palette) Bytes() []byte {
	return common.SliceToBytes(p.skin)
}
