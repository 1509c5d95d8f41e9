package main

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// synthModel builds a joint chain with two looping clips. "sway" bends every joint back and
// forth about Z over one second; "bob" lifts the root and twists the chain about Y over
// 0.6 seconds. Each clip has keys keyframes.
func synthModel(joints, keys int) (model.Model, error) {
	if joints < 1 || keys < 2 {
		return nil, fmt.Errorf("synthetic model needs at least 1 joint and 2 keyframes, got %d and %d", joints, keys)
	}

	chain := make([]model.Joint, joints)
	for i := range chain {
		bind := model.IdentityTransform()
		if i > 0 {
			bind.Translation = mgl32.Vec3{0, 0.25, 0}
			chain[i].Parent = jointName(i - 1)
		}
		chain[i].ID = jointName(i)
		chain[i].BindPose = bind
	}
	sk, err := model.NewSkeleton(chain)
	if err != nil {
		return nil, err
	}

	sway, err := synthClip("sway", sk, keys, 1, func(i int, phase float64, bind model.Transform) model.Transform {
		bind.Rotation = mgl32.QuatRotate(float32(0.3*math.Sin(phase)), mgl32.Vec3{0, 0, 1})
		return bind
	})
	if err != nil {
		return nil, err
	}
	bob, err := synthClip("bob", sk, keys, 0.6, func(i int, phase float64, bind model.Transform) model.Transform {
		if i == 0 {
			bind.Translation = mgl32.Vec3{0, float32(0.1 * math.Abs(math.Sin(phase))), 0}
		}
		bind.Rotation = mgl32.QuatRotate(float32(0.2*math.Cos(phase)), mgl32.Vec3{0, 1, 0})
		return bind
	})
	if err != nil {
		return nil, err
	}

	return model.NewModel(model.WithName("synthetic"), model.WithSkeleton(sk), model.WithClips(sway, bob)), nil
}

func synthClip(name string, sk *model.Skeleton, keys int, duration float32, shape func(i int, phase float64, bind model.Transform) model.Transform) (*model.AnimationClip, error) {
	frames := make([]model.KeyFrame, keys)
	for k := range frames {
		at := duration * float32(k) / float32(keys-1)
		phase := 2 * math.Pi * float64(k) / float64(keys-1)

		pose := make(map[model.JointID]model.Transform, sk.JointCount())
		for i := 0; i < sk.JointCount(); i++ {
			j := sk.JointAt(i)
			pose[j.ID] = shape(i, phase, j.BindPose)
		}
		kf, err := model.NewJointKeyFrame(at, pose)
		if err != nil {
			return nil, err
		}
		frames[k] = kf
	}
	return model.NewAnimationClip(frames, model.WithClipName(name), model.WithLoopPolicy(model.LoopRepeat))
}

func jointName(i int) model.JointID {
	return model.JointID(fmt.Sprintf("joint_%d", i))
}
