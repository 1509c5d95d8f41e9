package loader

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// gltfAnimationExtractorImpl is the implementation of the gltfAnimationExtractor interface.
type gltfAnimationExtractorImpl struct {
	parser gltfParser
}

// gltfAnimationExtractor converts glTF animations into joint-payload clips.
//
// glTF stores each animated property (translation, rotation, scale) of each node as its own
// track with its own timestamps. The extractor resamples every track of an animation at the
// union of those timestamps, so each resulting keyframe holds a complete transform for every
// joint the animation drives. Joints the animation never touches are left out of the keyframes
// and fall back to the skeleton's bind pose when sampled.
type gltfAnimationExtractor interface {
	// ExtractClip extracts a single animation by index.
	//
	// Parameters:
	//   - animIndex: the index of the animation in the document
	//   - nodeToJoint: glTF node index to joint ID; channels targeting other nodes are skipped
	//   - rest: the rest transform of each joint, used for properties the animation does not drive
	//   - policy: the loop policy to assign to the clip
	//
	// Returns:
	//   - *model.AnimationClip: the clip, or nil if the animation drives none of the joints
	//   - error: error if extraction fails or the keyframes are invalid
	ExtractClip(animIndex int, nodeToJoint map[int]model.JointID, rest map[model.JointID]model.Transform, policy model.LoopPolicy) (*model.AnimationClip, error)

	// ExtractAllClips extracts every animation that drives at least one of the joints.
	//
	// Parameters:
	//   - nodeToJoint: glTF node index to joint ID
	//   - rest: the rest transform of each joint
	//   - policy: the loop policy to assign to every clip
	//
	// Returns:
	//   - []*model.AnimationClip: the extracted clips
	//   - error: error if any extraction fails
	ExtractAllClips(nodeToJoint map[int]model.JointID, rest map[model.JointID]model.Transform, policy model.LoopPolicy) ([]*model.AnimationClip, error)
}

var _ gltfAnimationExtractor = &gltfAnimationExtractorImpl{}

// newGLTFAnimationExtractor creates a new animation extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfAnimationExtractor: the animation extractor
func newGLTFAnimationExtractor(parser gltfParser) gltfAnimationExtractor {
	return &gltfAnimationExtractorImpl{parser: parser}
}

// gltfTrack is one resampleable property track. Exactly one of vectors or rotations is set.
type gltfTrack struct {
	times         []float32
	interpolation string
	vectors       []mgl32.Vec3
	rotations     []mgl32.Quat
}

// gltfJointTracks groups the property tracks driving one joint.
type gltfJointTracks struct {
	translation, rotation, scale *gltfTrack
}

func (e *gltfAnimationExtractorImpl) ExtractClip(animIndex int, nodeToJoint map[int]model.JointID, rest map[model.JointID]model.Transform, policy model.LoopPolicy) (*model.AnimationClip, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	if animIndex < 0 || animIndex >= len(doc.Animations) {
		return nil, fmt.Errorf("animation index %d out of range", animIndex)
	}

	anim := &doc.Animations[animIndex]
	name := anim.Name
	if name == "" {
		name = fmt.Sprintf("animation_%d", animIndex)
	}

	tracks := make(map[model.JointID]*gltfJointTracks)
	var times []float32

	for i := range anim.Channels {
		ch := &anim.Channels[i]
		if ch.Target.Node == nil || ch.Target.Path == gltfAnimPathWeights {
			continue
		}
		joint, ok := nodeToJoint[*ch.Target.Node]
		if !ok {
			continue
		}
		if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) {
			return nil, fmt.Errorf("animation %q channel %d: invalid sampler index %d", name, i, ch.Sampler)
		}

		track, err := e.readTrack(&anim.Samplers[ch.Sampler], ch.Target.Path)
		if err != nil {
			return nil, fmt.Errorf("animation %q channel %d: %w", name, i, err)
		}
		if track == nil {
			continue
		}
		times = append(times, track.times...)
		if track.interpolation == gltfAnimInterpolationStep {
			times = append(times, track.holdTimes()...)
		}

		jt, ok := tracks[joint]
		if !ok {
			jt = &gltfJointTracks{}
			tracks[joint] = jt
		}
		switch ch.Target.Path {
		case gltfAnimPathTranslation:
			jt.translation = track
		case gltfAnimPathRotation:
			jt.rotation = track
		case gltfAnimPathScale:
			jt.scale = track
		}
	}

	if len(tracks) == 0 {
		return nil, nil
	}

	slices.Sort(times)
	times = slices.Compact(times)

	keyFrames := make([]model.KeyFrame, 0, len(times))
	for _, t := range times {
		joints := make(map[model.JointID]model.Transform, len(tracks))
		for joint, jt := range tracks {
			transform, ok := rest[joint]
			if !ok {
				transform = model.IdentityTransform()
			}
			if jt.translation != nil {
				transform.Translation = jt.translation.sampleVector(t)
			}
			if jt.rotation != nil {
				transform.Rotation = jt.rotation.sampleRotation(t)
			}
			if jt.scale != nil {
				transform.Scale = jt.scale.sampleVector(t)
			}
			joints[joint] = transform
		}

		kf, err := model.NewJointKeyFrame(t, joints)
		if err != nil {
			return nil, fmt.Errorf("animation %q: %w", name, err)
		}
		keyFrames = append(keyFrames, kf)
	}

	clip, err := model.NewAnimationClip(keyFrames, model.WithClipName(name), model.WithLoopPolicy(policy))
	if err != nil {
		return nil, fmt.Errorf("animation %q: %w", name, err)
	}
	return clip, nil
}

func (e *gltfAnimationExtractorImpl) ExtractAllClips(nodeToJoint map[int]model.JointID, rest map[model.JointID]model.Transform, policy model.LoopPolicy) ([]*model.AnimationClip, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	var clips []*model.AnimationClip
	for i := range doc.Animations {
		clip, err := e.ExtractClip(i, nodeToJoint, rest, policy)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		if clip != nil {
			clips = append(clips, clip)
		}
	}
	return clips, nil
}

// readTrack reads a sampler's input times and output values for one property path.
// CUBICSPLINE outputs store (in-tangent, value, out-tangent) triplets; only the values are kept.
func (e *gltfAnimationExtractorImpl) readTrack(sampler *gltfAnimSampler, path string) (*gltfTrack, error) {
	times, err := e.parser.ReadScalarAccessor(sampler.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to read timestamps: %w", err)
	}
	if len(times) == 0 {
		return nil, nil
	}

	track := &gltfTrack{
		times:         times,
		interpolation: common.Coalesce(sampler.Interpolation, gltfAnimInterpolationLinear),
	}
	stride, offset := 1, 0
	if track.interpolation == gltfAnimInterpolationCubicSpline {
		stride, offset = 3, 1
	}

	switch path {
	case gltfAnimPathTranslation, gltfAnimPathScale:
		values, err := e.parser.ReadVec3Accessor(sampler.Output)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s values: %w", path, err)
		}
		if len(values) < len(times)*stride {
			return nil, fmt.Errorf("%s has %d values for %d keyframes", path, len(values), len(times))
		}
		track.vectors = make([]mgl32.Vec3, len(times))
		for i := range times {
			track.vectors[i] = mgl32.Vec3(values[i*stride+offset])
		}
	case gltfAnimPathRotation:
		values, err := e.parser.ReadVec4Accessor(sampler.Output)
		if err != nil {
			return nil, fmt.Errorf("failed to read rotation values: %w", err)
		}
		if len(values) < len(times)*stride {
			return nil, fmt.Errorf("rotation has %d values for %d keyframes", len(values), len(times))
		}
		track.rotations = make([]mgl32.Quat, len(times))
		for i := range times {
			track.rotations[i] = gltfQuat(values[i*stride+offset])
		}
	default:
		return nil, nil
	}
	return track, nil
}

// holdTimes returns, for every key after the first, the instant just before it. A keyframe
// resampled there still carries the previous value, so linear sampling of the clip holds each
// step until its key.
func (tr *gltfTrack) holdTimes() []float32 {
	holds := make([]float32, 0, len(tr.times))
	for i := 1; i < len(tr.times); i++ {
		if tr.times[i] > tr.times[i-1] {
			holds = append(holds, math.Nextafter32(tr.times[i], tr.times[i-1]))
		}
	}
	return holds
}

// bracket returns the keyframe pair around t and the progress between them.
func (tr *gltfTrack) bracket(t float32) (int, int, float32) {
	n := len(tr.times)
	k := sort.Search(n, func(i int) bool { return tr.times[i] > t })
	switch {
	case k == 0:
		return 0, 0, 0
	case k == n:
		return n - 1, n - 1, 0
	}
	i := k - 1
	if tr.interpolation == gltfAnimInterpolationStep {
		return i, i, 0
	}
	span := tr.times[k] - tr.times[i]
	if span <= 0 {
		return i, i, 0
	}
	return i, k, (t - tr.times[i]) / span
}

func (tr *gltfTrack) sampleVector(t float32) mgl32.Vec3 {
	i, j, p := tr.bracket(t)
	if i == j {
		return tr.vectors[i]
	}
	return model.LerpVec3(tr.vectors[i], tr.vectors[j], p)
}

func (tr *gltfTrack) sampleRotation(t float32) mgl32.Quat {
	i, j, p := tr.bracket(t)
	if i == j {
		return tr.rotations[i]
	}
	return model.Slerp(tr.rotations[i], tr.rotations[j], p)
}
