package loader

import (
	"errors"
	"fmt"
	"io"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// ModelDocument is the YAML authoring format for an animation asset: an optional skeleton and
// any number of clips. Each keyframe carries either a scalar value or a joint map, and every
// keyframe of one clip must carry the same kind.
//
//	name: hero
//	skeleton:
//	  - id: hip
//	    translation: [0, 1, 0]
//	  - id: knee
//	    parent: hip
//	    translation: [0, -0.5, 0]
//	clips:
//	  - name: walk
//	    loop: loop
//	    keyframes:
//	      - time: 0
//	        joints:
//	          knee: {rotation: [0, 0, 0, 1]}
//	      - time: 1
//	        joints:
//	          knee: {rotation: [0.383, 0, 0, 0.924]}
type ModelDocument struct {
	Name     string          `yaml:"name"`
	Skeleton []JointDocument `yaml:"skeleton,omitempty"`
	Clips    []ClipDocument  `yaml:"clips"`
}

// JointDocument is one skeleton joint. The inline transform is the bind pose.
type JointDocument struct {
	TransformDocument `yaml:",inline"`

	ID     string `yaml:"id"`
	Parent string `yaml:"parent,omitempty"`

	// InverseBind is a column-major matrix. Derived from the bind poses when omitted.
	InverseBind *[16]float32 `yaml:"inverse_bind,omitempty"`
}

// TransformDocument is a bone-space transform. Omitted components take their identity value,
// or in a keyframe of a model with a skeleton, the joint's bind pose value.
type TransformDocument struct {
	Translation *[3]float32 `yaml:"translation,omitempty"`
	Rotation    *[4]float32 `yaml:"rotation,omitempty"` // x, y, z, w
	Scale       *[3]float32 `yaml:"scale,omitempty"`
}

// ClipDocument is one named clip. Loop is parsed with model.ParseLoopPolicy.
type ClipDocument struct {
	Name      string             `yaml:"name"`
	Loop      string             `yaml:"loop,omitempty"`
	KeyFrames []KeyFrameDocument `yaml:"keyframes"`
}

// KeyFrameDocument is one keyframe. Exactly one of Value or Joints must be set.
type KeyFrameDocument struct {
	Time   float32                      `yaml:"time"`
	Value  *float32                     `yaml:"value,omitempty"`
	Joints map[string]TransformDocument `yaml:"joints,omitempty"`
}

// DecodeModelDocument decodes a YAML model document. Unknown keys are rejected so that a
// misspelled field fails the load instead of silently taking its default.
//
// Parameters:
//   - r: the reader providing YAML data
//
// Returns:
//   - *ModelDocument: the decoded document
//   - error: error if the YAML is malformed or empty
func DecodeModelDocument(r io.Reader) (*ModelDocument, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc ModelDocument
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
		}
		return nil, fmt.Errorf("failed to decode YAML: %w", err)
	}
	return &doc, nil
}

// Transform converts the document into a model transform.
//
// Returns:
//   - model.Transform: the transform, with unit scale and identity rotation where omitted
func (d TransformDocument) Transform() model.Transform {
	return d.TransformOver(model.IdentityTransform())
}

// TransformOver converts the document into a model transform, taking omitted components from
// base.
//
// Parameters:
//   - base: the transform supplying omitted components, normally the joint's bind pose
//
// Returns:
//   - model.Transform: the transform
func (d TransformDocument) TransformOver(base model.Transform) model.Transform {
	t := base
	if d.Translation != nil {
		t.Translation = mgl32.Vec3(*d.Translation)
	}
	if d.Rotation != nil {
		r := *d.Rotation
		t.Rotation = mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}.Normalize()
	}
	if d.Scale != nil {
		t.Scale = mgl32.Vec3(*d.Scale)
	}
	return t
}

// Build validates the document and constructs the model it describes.
//
// Parameters:
//   - fallbackName: the model name to use when the document does not set one
//
// Returns:
//   - model.Model: the constructed model
//   - error: ErrInvalidDocument, or a wrapped model structural error, if the document is malformed
func (d *ModelDocument) Build(fallbackName string) (model.Model, error) {
	name := d.Name
	if name == "" {
		name = fallbackName
	}

	var skeleton *model.Skeleton
	if len(d.Skeleton) > 0 {
		joints := make([]model.Joint, len(d.Skeleton))
		for i, jd := range d.Skeleton {
			if jd.ID == "" {
				return nil, fmt.Errorf("%w: skeleton joint %d has no id", ErrInvalidDocument, i)
			}
			joints[i] = model.Joint{
				ID:       model.JointID(jd.ID),
				Parent:   model.JointID(jd.Parent),
				BindPose: jd.Transform(),
			}
			if jd.InverseBind != nil {
				joints[i].InverseBindMatrix = mgl32.Mat4(*jd.InverseBind)
			}
		}

		var err error
		skeleton, err = model.NewSkeleton(joints)
		if err != nil {
			return nil, fmt.Errorf("model %q skeleton: %w", name, err)
		}
	}

	seen := make(map[string]bool, len(d.Clips))
	clips := make([]*model.AnimationClip, 0, len(d.Clips))
	for i := range d.Clips {
		clip, err := d.Clips[i].build(i, skeleton)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", name, err)
		}
		if seen[clip.Name()] {
			return nil, fmt.Errorf("model %q: %w: duplicate clip name %q", name, ErrInvalidDocument, clip.Name())
		}
		seen[clip.Name()] = true
		clips = append(clips, clip)
	}

	return model.NewModel(
		model.WithName(name),
		model.WithSkeleton(skeleton),
		model.WithClips(clips...),
	), nil
}

func (c *ClipDocument) build(index int, skeleton *model.Skeleton) (*model.AnimationClip, error) {
	name := c.Name
	if name == "" {
		name = fmt.Sprintf("clip_%d", index)
	}

	policy, err := model.ParseLoopPolicy(c.Loop)
	if err != nil {
		return nil, fmt.Errorf("clip %q: %w", name, err)
	}

	keyFrames := make([]model.KeyFrame, len(c.KeyFrames))
	for i, kd := range c.KeyFrames {
		kf, err := kd.build(skeleton)
		if err != nil {
			return nil, fmt.Errorf("clip %q keyframe %d: %w", name, i, err)
		}
		keyFrames[i] = kf
	}

	clip, err := model.NewAnimationClip(keyFrames, model.WithClipName(name), model.WithLoopPolicy(policy))
	if err != nil {
		return nil, fmt.Errorf("clip %q: %w", name, err)
	}
	return clip, nil
}

func (k *KeyFrameDocument) build(skeleton *model.Skeleton) (model.KeyFrame, error) {
	switch {
	case k.Value != nil && len(k.Joints) > 0:
		return model.KeyFrame{}, fmt.Errorf("%w: keyframe sets both value and joints", ErrInvalidDocument)
	case k.Value != nil:
		return model.NewScalarKeyFrame(k.Time, *k.Value)
	case len(k.Joints) == 0:
		return model.KeyFrame{}, fmt.Errorf("%w: keyframe sets neither value nor joints", ErrInvalidDocument)
	}

	joints := make(map[model.JointID]model.Transform, len(k.Joints))
	for id, td := range k.Joints {
		jid := model.JointID(id)
		base := model.IdentityTransform()
		if skeleton != nil {
			bind, ok := skeleton.BindPose(jid)
			if !ok {
				return model.KeyFrame{}, fmt.Errorf("%w: joint %q is not part of the skeleton", ErrInvalidDocument, id)
			}
			base = bind
		}
		joints[jid] = td.TransformOver(base)
	}
	return model.NewJointKeyFrame(k.Time, joints)
}
