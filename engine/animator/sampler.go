package animator

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// Sample evaluates a clip at a query time and returns a newly allocated Pose.
// See SampleInto for the evaluation rules.
//
// Parameters:
//   - clip: the clip to evaluate
//   - skeleton: the skeleton supplying the joint set and bind pose, or nil
//   - time: the raw query time in seconds
//
// Returns:
//   - model.Pose: the sampled pose
func Sample(clip *model.AnimationClip, skeleton *model.Skeleton, time float32) model.Pose {
	var p model.Pose
	SampleInto(&p, clip, skeleton, time)
	return p
}

// SampleInto evaluates a clip at a query time, writing the result into dst and reusing its storage.
//
// The time is first normalized by the clip's loop policy, then bracketed by the adjacent
// keyframe pair. A degenerate bracket (clip start or end, an exact keyframe hit, or a static
// clip) copies that keyframe's payload without interpolation. Otherwise scalars are lerped and
// joints are interpolated per channel: translation and scale linearly, rotation by shortest-arc
// slerp.
//
// For joint clips with a skeleton, dst covers every skeleton joint; a joint missing from a
// bracketing keyframe takes the skeleton's bind pose in its place, and keyframe joints unknown
// to the skeleton are ignored. Without a skeleton, dst covers the union of joints in the bracket
// and a joint missing from one side takes the identity transform.
//
// Parameters:
//   - dst: the pose to overwrite
//   - clip: the clip to evaluate
//   - skeleton: the skeleton supplying the joint set and bind pose, or nil
//   - time: the raw query time in seconds
func SampleInto(dst *model.Pose, clip *model.AnimationClip, skeleton *model.Skeleton, time float32) {
	dst.Reset(clip.Kind())

	t := clip.NormalizeTime(time)
	i, j := clip.FindBracket(t)
	a := clip.KeyFrameAt(i)

	if i == j {
		writeKeyFrame(dst, a, skeleton)
		return
	}

	b := clip.KeyFrameAt(j)
	span := b.TimeStamp() - a.TimeStamp()
	if span <= 0 {
		writeKeyFrame(dst, a, skeleton)
		return
	}
	p := common.Clamp((t-a.TimeStamp())/span, 0, 1)

	if clip.Kind() == model.PayloadScalar {
		dst.Scalar = common.Lerp(a.Value(), b.Value(), p)
		return
	}

	if skeleton != nil {
		for idx := range skeleton.JointCount() {
			joint := skeleton.JointAt(idx)
			ta, okA := a.Joint(joint.ID)
			tb, okB := b.Joint(joint.ID)
			switch {
			case !okA && !okB:
				dst.Joints[joint.ID] = joint.BindPose
				continue
			case !okA:
				ta = joint.BindPose
			case !okB:
				tb = joint.BindPose
			}
			dst.Joints[joint.ID] = model.InterpolateTransform(ta, tb, p)
		}
		return
	}

	for id, ta := range a.Joints() {
		tb, ok := b.Joint(id)
		if !ok {
			tb = model.IdentityTransform()
		}
		dst.Joints[id] = model.InterpolateTransform(ta, tb, p)
	}
	for id, tb := range b.Joints() {
		if _, done := dst.Joints[id]; done {
			continue
		}
		dst.Joints[id] = model.InterpolateTransform(model.IdentityTransform(), tb, p)
	}
}

// writeKeyFrame copies a keyframe payload into dst unchanged, filling skeleton joints the
// keyframe omits from the bind pose.
func writeKeyFrame(dst *model.Pose, kf model.KeyFrame, skeleton *model.Skeleton) {
	if kf.Kind() == model.PayloadScalar {
		dst.Scalar = kf.Value()
		return
	}
	if skeleton == nil {
		for id, t := range kf.Joints() {
			dst.Joints[id] = t
		}
		return
	}
	for idx := range skeleton.JointCount() {
		joint := skeleton.JointAt(idx)
		dst.Joints[joint.ID] = jointOrBind(kf, joint)
	}
}

// jointOrBind is the layered lookup: keyframe first, then the joint's bind pose.
func jointOrBind(kf model.KeyFrame, joint model.Joint) model.Transform {
	if t, ok := kf.Joint(joint.ID); ok {
		return t
	}
	return joint.BindPose
}

// BlendPoses blends two sampled poses into dst with the interpolation rules of SampleInto,
// using weight as the progress from a (weight 0) to b (weight 1). Both poses must share a
// payload kind; if they do not, dst receives a copy of b. A joint present in only one pose
// is taken from that pose unchanged.
//
// Parameters:
//   - dst: the pose to overwrite (may not alias a or b)
//   - a: the outgoing pose
//   - b: the incoming pose
//   - weight: the blend weight, clamped to [0, 1]
func BlendPoses(dst, a, b *model.Pose, weight float32) {
	w := common.Clamp(weight, 0, 1)
	if a.Kind != b.Kind {
		w = 1
	}
	dst.Reset(b.Kind)

	if b.Kind == model.PayloadScalar {
		switch w {
		case 0:
			dst.Scalar = a.Scalar
		case 1:
			dst.Scalar = b.Scalar
		default:
			dst.Scalar = common.Lerp(a.Scalar, b.Scalar, w)
		}
		return
	}

	for id, tb := range b.Joints {
		ta, ok := a.Joints[id]
		switch {
		case !ok || w == 1:
			dst.Joints[id] = tb
		case w == 0:
			dst.Joints[id] = ta
		default:
			dst.Joints[id] = model.InterpolateTransform(ta, tb, w)
		}
	}
	if w == 1 {
		return
	}
	for id, ta := range a.Joints {
		if _, done := dst.Joints[id]; !done {
			dst.Joints[id] = ta
		}
	}
}
