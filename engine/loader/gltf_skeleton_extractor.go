package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// gltfSkeletonExtractorImpl is the implementation of the gltfSkeletonExtractor interface.
type gltfSkeletonExtractorImpl struct {
	parser gltfParser
}

// gltfSkeletonExtractor converts glTF skins into model joints.
type gltfSkeletonExtractor interface {
	// ExtractSkeleton builds a Skeleton from a skin by index.
	//
	// Parameters:
	//   - skinIndex: the index of the skin to extract
	//
	// Returns:
	//   - *model.Skeleton: the skeleton, ordered parent-first
	//   - map[int]model.JointID: glTF node index to joint ID, for resolving animation channels
	//   - error: error if extraction or skeleton validation fails
	ExtractSkeleton(skinIndex int) (*model.Skeleton, map[int]model.JointID, error)

	// FindSkin returns the skin to use for the model: the first skin referenced by a node,
	// or 0 when skins exist but no node references one, or -1 when there are none.
	//
	// Returns:
	//   - int: the skin index or -1
	FindSkin() int
}

var _ gltfSkeletonExtractor = &gltfSkeletonExtractorImpl{}

// newGLTFSkeletonExtractor creates a new skeleton extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfSkeletonExtractor: the skeleton extractor
func newGLTFSkeletonExtractor(parser gltfParser) gltfSkeletonExtractor {
	return &gltfSkeletonExtractorImpl{parser: parser}
}

func (e *gltfSkeletonExtractorImpl) FindSkin() int {
	doc := e.parser.Document()
	if doc == nil || len(doc.Skins) == 0 {
		return -1
	}
	for _, node := range doc.Nodes {
		if node.Skin != nil && *node.Skin >= 0 && *node.Skin < len(doc.Skins) {
			return *node.Skin
		}
	}
	return 0
}

func (e *gltfSkeletonExtractorImpl) ExtractSkeleton(skinIndex int) (*model.Skeleton, map[int]model.JointID, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, nil, fmt.Errorf("no document loaded")
	}
	if skinIndex < 0 || skinIndex >= len(doc.Skins) {
		return nil, nil, fmt.Errorf("skin index %d out of range", skinIndex)
	}
	skin := &doc.Skins[skinIndex]

	var inverseBindMatrices [][16]float32
	if skin.InverseBindMatrices != nil {
		var err error
		inverseBindMatrices, err = e.parser.ReadMat4Accessor(*skin.InverseBindMatrices)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read inverse bind matrices: %w", err)
		}
	}

	nodeToJoint := make(map[int]model.JointID, len(skin.Joints))
	used := make(map[model.JointID]bool, len(skin.Joints))
	for i, nodeIndex := range skin.Joints {
		if nodeIndex < 0 || nodeIndex >= len(doc.Nodes) {
			return nil, nil, fmt.Errorf("joint %d: invalid node index %d", i, nodeIndex)
		}
		id := model.JointID(doc.Nodes[nodeIndex].Name)
		if id == "" || used[id] {
			id = model.JointID(fmt.Sprintf("joint_%d", nodeIndex))
		}
		used[id] = true
		nodeToJoint[nodeIndex] = id
	}

	// A joint's parent is the nearest node listing it as a child, when that node is also a joint.
	parentOf := make(map[int]int, len(doc.Nodes))
	for nodeIndex, node := range doc.Nodes {
		for _, child := range node.Children {
			parentOf[child] = nodeIndex
		}
	}

	joints := make([]model.Joint, len(skin.Joints))
	for i, nodeIndex := range skin.Joints {
		joint := model.Joint{
			ID:       nodeToJoint[nodeIndex],
			BindPose: gltfNodeTransform(&doc.Nodes[nodeIndex]),
		}
		if parent, ok := parentOf[nodeIndex]; ok {
			joint.Parent = nodeToJoint[parent]
		}
		if i < len(inverseBindMatrices) {
			joint.InverseBindMatrix = mgl32.Mat4(inverseBindMatrices[i])
		}
		joints[i] = joint
	}

	skeleton, err := model.NewSkeleton(joints)
	if err != nil {
		return nil, nil, fmt.Errorf("skin %d: %w", skinIndex, err)
	}
	return skeleton, nodeToJoint, nil
}

// gltfNodeTransform extracts a node's local TRS transform, decomposing its matrix if present.
func gltfNodeTransform(node *gltfNode) model.Transform {
	if node.Matrix != nil {
		return gltfDecomposeMatrix(mgl32.Mat4(*node.Matrix))
	}

	t := model.IdentityTransform()
	if node.Translation != nil {
		t.Translation = mgl32.Vec3(*node.Translation)
	}
	if node.Rotation != nil {
		t.Rotation = gltfQuat(*node.Rotation)
	}
	if node.Scale != nil {
		t.Scale = mgl32.Vec3(*node.Scale)
	}
	return t
}

// gltfQuat converts a glTF x, y, z, w quaternion.
func gltfQuat(q [4]float32) mgl32.Quat {
	return mgl32.Quat{W: q[3], V: mgl32.Vec3{q[0], q[1], q[2]}}.Normalize()
}

// gltfDecomposeMatrix decomposes a column-major matrix into translation, rotation and scale.
// Shear is not supported.
func gltfDecomposeMatrix(m mgl32.Mat4) model.Transform {
	t := model.Transform{
		Translation: m.Col(3).Vec3(),
		Scale:       mgl32.Vec3{m.Col(0).Vec3().Len(), m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()},
	}

	var rot mgl32.Mat4
	for c := range 3 {
		s := t.Scale[c]
		if s < 0.0001 {
			s = 1
		}
		rot.SetCol(c, m.Col(c).Mul(1/s))
	}
	rot.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
	for c := range 3 {
		rot[c*4+3] = 0
	}

	t.Rotation = mgl32.Mat4ToQuat(rot).Normalize()
	return t
}
