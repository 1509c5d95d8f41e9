package animator

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-5

func scalarClip(t *testing.T, policy model.LoopPolicy, pairs ...float32) *model.AnimationClip {
	t.Helper()
	keys := make([]model.KeyFrame, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		kf, err := model.NewScalarKeyFrame(pairs[i], pairs[i+1])
		if err != nil {
			t.Fatal(err)
		}
		keys = append(keys, kf)
	}
	clip, err := model.NewAnimationClip(keys, model.WithLoopPolicy(policy))
	if err != nil {
		t.Fatal(err)
	}
	return clip
}

type jointKey struct {
	at     float32
	joints map[model.JointID]model.Transform
}

func jointClip(t *testing.T, name string, policy model.LoopPolicy, keys ...jointKey) *model.AnimationClip {
	t.Helper()
	frames := make([]model.KeyFrame, 0, len(keys))
	for _, k := range keys {
		kf, err := model.NewJointKeyFrame(k.at, k.joints)
		if err != nil {
			t.Fatal(err)
		}
		frames = append(frames, kf)
	}
	clip, err := model.NewAnimationClip(frames, model.WithClipName(name), model.WithLoopPolicy(policy))
	if err != nil {
		t.Fatal(err)
	}
	return clip
}

func translated(x, y, z float32) model.Transform {
	t := model.IdentityTransform()
	t.Translation = mgl32.Vec3{x, y, z}
	return t
}

func rotated(angle float32, axis mgl32.Vec3) model.Transform {
	t := model.IdentityTransform()
	t.Rotation = mgl32.QuatRotate(angle, axis)
	return t
}

func near(a, b float32) bool {
	return mgl32.Abs(a-b) <= eps
}

// quatNear compares quaternions component-wise, so q and -q are distinct.
func quatNear(a, b mgl32.Quat) bool {
	return near(a.W, b.W) && near(a.V[0], b.V[0]) && near(a.V[1], b.V[1]) && near(a.V[2], b.V[2])
}
