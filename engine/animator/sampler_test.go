package animator

import (
	"maps"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

func TestSampleScalarLoopScenario(t *testing.T) {
	clip := scalarClip(t, model.LoopRepeat, 0, 0, 1, 10, 2, 0)

	cases := []struct {
		time float32
		want float32
	}{
		{0, 0},
		{0.5, 5},
		{1, 10},
		{1.5, 5},
		{2, 0},
		{2.5, 5},
		{3, 10},
		{-0.5, 5},
	}

	for _, c := range cases {
		got := Sample(clip, nil, c.time)
		if got.Kind != model.PayloadScalar {
			t.Fatalf("sample(%v) kind = %v", c.time, got.Kind)
		}
		if !near(got.Scalar, c.want) {
			t.Errorf("sample(%v) = %v, want %v", c.time, got.Scalar, c.want)
		}
	}
}

func TestSampleExactKeyFrameIsUnchanged(t *testing.T) {
	scalar := scalarClip(t, model.LoopClamp, 0, 0.1, 0.3, 0.7, 0.9, 1.3)
	for i := range scalar.KeyFrameCount() {
		kf := scalar.KeyFrameAt(i)
		if got := Sample(scalar, nil, kf.TimeStamp()).Scalar; got != kf.Value() {
			t.Errorf("scalar key %d: sample = %v, want exactly %v", i, got, kf.Value())
		}
	}

	joints := jointClip(t, "walk", model.LoopRepeat,
		jointKey{0, map[model.JointID]model.Transform{"hip": translated(0.1, 0.2, 0.3)}},
		jointKey{0.25, map[model.JointID]model.Transform{"hip": rotated(1.1, mgl32.Vec3{0, 1, 0})}},
		jointKey{1, map[model.JointID]model.Transform{"hip": translated(0.7, 0.1, 0.9)}},
	)
	for i := range joints.KeyFrameCount() - 1 {
		kf := joints.KeyFrameAt(i)
		got := Sample(joints, nil, kf.TimeStamp())
		want, _ := kf.Joint("hip")
		if got.Joints["hip"] != want {
			t.Errorf("joint key %d: sample = %+v, want exactly %+v", i, got.Joints["hip"], want)
		}
	}
}

func TestSampleScalarLerp(t *testing.T) {
	clip := scalarClip(t, model.LoopClamp, 1, 2, 5, 10)

	for _, p := range []float32{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1} {
		time := 1 + 4*p
		want := 2*(1-p) + 10*p
		if got := Sample(clip, nil, time).Scalar; !near(got, want) {
			t.Errorf("p=%v: sample(%v) = %v, want %v", p, time, got, want)
		}
	}
}

func TestSampleRotationTakesShortestArc(t *testing.T) {
	axis := mgl32.Vec3{0, 1, 0}
	a := model.IdentityTransform()
	b := rotated(math.Pi/2, axis)
	b.Rotation = b.Rotation.Scale(-1)
	if a.Rotation.Dot(b.Rotation) >= 0 {
		t.Fatal("test setup: expected opposite hemispheres")
	}

	clip := jointClip(t, "turn", model.LoopClamp,
		jointKey{0, map[model.JointID]model.Transform{"head": a}},
		jointKey{1, map[model.JointID]model.Transform{"head": b}},
	)

	for _, p := range []float32{0.25, 0.5, 0.75} {
		got := Sample(clip, nil, p).Joints["head"].Rotation
		want := mgl32.QuatSlerp(a.Rotation, b.Rotation.Scale(-1), p)
		if !quatNear(got, want) {
			t.Errorf("p=%v: rotation = %v, want %v (interpolated toward -B)", p, got, want)
		}
		if angle := 2 * float32(math.Acos(float64(mgl32.Clamp(got.W, -1, 1)))); angle > math.Pi/2+eps {
			t.Errorf("p=%v: rotation angle %v exceeds the short arc", p, angle)
		}
	}
}

func TestSampleLoopIsPeriodic(t *testing.T) {
	clip := jointClip(t, "sway", model.LoopRepeat,
		jointKey{0, map[model.JointID]model.Transform{"spine": translated(0, 0, 0)}},
		jointKey{0.4, map[model.JointID]model.Transform{"spine": rotated(0.6, mgl32.Vec3{1, 0, 0})}},
		jointKey{1.5, map[model.JointID]model.Transform{"spine": translated(1, 2, 3)}},
	)
	d := clip.Duration()

	for _, time := range []float32{0, 0.1, 0.4, 0.77, 1.2, 1.49} {
		a := Sample(clip, nil, time).Joints["spine"]
		b := Sample(clip, nil, time+d).Joints["spine"]
		if !a.ApproxEqual(b, 1e-4) {
			t.Errorf("sample(%v) = %+v, sample(%v) = %+v", time, a, time+d, b)
		}
	}
}

func TestSampleClampOutsideRange(t *testing.T) {
	clip := scalarClip(t, model.LoopClamp, 0, 3, 1, 4, 2, -1)
	start := Sample(clip, nil, 0).Scalar
	end := Sample(clip, nil, clip.Duration()).Scalar

	for _, time := range []float32{-0.001, -1, -100} {
		if got := Sample(clip, nil, time).Scalar; got != start {
			t.Errorf("sample(%v) = %v, want %v", time, got, start)
		}
	}
	for _, time := range []float32{2.001, 3, 1e6} {
		if got := Sample(clip, nil, time).Scalar; got != end {
			t.Errorf("sample(%v) = %v, want %v", time, got, end)
		}
	}
}

func TestSampleStaticClip(t *testing.T) {
	pose := map[model.JointID]model.Transform{
		"root": translated(1, 2, 3),
		"tail": rotated(0.3, mgl32.Vec3{0, 0, 1}),
	}
	cases := []struct {
		name   string
		policy model.LoopPolicy
	}{
		{"clamp", model.LoopClamp},
		{"loop", model.LoopRepeat},
		{"pingpong", model.LoopPingPong},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			clip := jointClip(t, "idle", c.policy, jointKey{0, pose})
			if !clip.IsStatic() {
				t.Fatal("single keyframe clip not static")
			}
			for _, time := range []float32{-5, 0, 0.5, 100} {
				if got := Sample(clip, nil, time); !maps.Equal(got.Joints, pose) {
					t.Fatalf("sample(%v) = %+v, want %+v", time, got.Joints, pose)
				}
			}
		})
	}
}

func TestSampleMissingJointUsesBindPose(t *testing.T) {
	kneeBind := model.Transform{
		Translation: mgl32.Vec3{0, 0.45, 0.01},
		Rotation:    mgl32.QuatRotate(0.1, mgl32.Vec3{1, 0, 0}),
		Scale:       mgl32.Vec3{1, 1, 1},
	}
	skel, err := model.NewSkeleton([]model.Joint{
		{ID: "hip", BindPose: translated(0, 1, 0)},
		{ID: "knee", Parent: "hip", BindPose: kneeBind},
		{ID: "foot", Parent: "knee", BindPose: translated(0, 0.4, 0)},
	})
	if err != nil {
		t.Fatal(err)
	}

	clip := jointClip(t, "kick", model.LoopClamp,
		jointKey{0, map[model.JointID]model.Transform{"hip": translated(0, 1, 0)}},
		jointKey{1, map[model.JointID]model.Transform{"hip": translated(0, 2, 0), "foot": translated(0, 0, 0)}},
		// Joints unknown to the skeleton are ignored.
		jointKey{2, map[model.JointID]model.Transform{"wing": translated(5, 5, 5)}},
	)

	for _, time := range []float32{0, 0.3, 1, 1.5, 2} {
		pose := Sample(clip, skel, time)
		if len(pose.Joints) != skel.JointCount() {
			t.Fatalf("sample(%v) covers %d joints, want %d", time, len(pose.Joints), skel.JointCount())
		}
		if pose.Joints["knee"] != kneeBind {
			t.Errorf("sample(%v) knee = %+v, want bind pose %+v", time, pose.Joints["knee"], kneeBind)
		}
		if _, ok := pose.Joints["wing"]; ok {
			t.Errorf("sample(%v) produced a joint outside the skeleton", time)
		}
	}

	// Foot only keyed on one side of [0, 1]: interpolates from its bind pose.
	foot := Sample(clip, skel, 0.5).Joints["foot"]
	if !near(foot.Translation[1], 0.2) {
		t.Errorf("foot translation = %v, want halfway between bind and key", foot.Translation)
	}
	// Hip keyed at 1 but not at 2: blends back toward its bind pose.
	hip := Sample(clip, skel, 1.5).Joints["hip"]
	if !near(hip.Translation[1], 1.5) {
		t.Errorf("hip translation = %v, want 1.5", hip.Translation)
	}
}

func TestSampleWithoutSkeletonUsesJointUnion(t *testing.T) {
	clip := jointClip(t, "wave", model.LoopClamp,
		jointKey{0, map[model.JointID]model.Transform{"arm": translated(2, 0, 0)}},
		jointKey{1, map[model.JointID]model.Transform{"hand": translated(0, 4, 0)}},
	)

	pose := Sample(clip, nil, 0.5)
	if len(pose.Joints) != 2 {
		t.Fatalf("expected union of 2 joints, got %v", pose.Joints)
	}
	if !pose.Joints["arm"].ApproxEqual(translated(1, 0, 0), eps) {
		t.Errorf("arm = %+v", pose.Joints["arm"])
	}
	if !pose.Joints["hand"].ApproxEqual(translated(0, 2, 0), eps) {
		t.Errorf("hand = %+v", pose.Joints["hand"])
	}
}

func TestSampleZeroLengthInterval(t *testing.T) {
	clip := scalarClip(t, model.LoopClamp, 0, 0, 1, 4, 1, 8, 2, 0)

	if got := Sample(clip, nil, 1).Scalar; got != 4 {
		t.Fatalf("sample on duplicate timestamp = %v, want the earlier keyframe 4", got)
	}
	if got := Sample(clip, nil, 1.5).Scalar; !near(got, 4) {
		t.Errorf("sample(1.5) = %v, want 4", got)
	}
	if got := Sample(clip, nil, 0.5).Scalar; !near(got, 2) {
		t.Errorf("sample(0.5) = %v, want 2", got)
	}
}

func TestSampleIntoReusesPose(t *testing.T) {
	joints := jointClip(t, "a", model.LoopClamp, jointKey{0, map[model.JointID]model.Transform{"x": translated(1, 0, 0)}})
	scalar := scalarClip(t, model.LoopClamp, 0, 7)

	var pose model.Pose
	SampleInto(&pose, joints, nil, 0)
	storage := pose.Joints
	SampleInto(&pose, scalar, nil, 0)
	if pose.Kind != model.PayloadScalar || pose.Scalar != 7 || len(pose.Joints) != 0 {
		t.Fatalf("scalar sample into reused pose = %+v", pose)
	}
	SampleInto(&pose, joints, nil, 0)
	if len(pose.Joints) != 1 {
		t.Fatalf("joint sample into reused pose = %+v", pose)
	}
	pose.Joints["extra"] = model.IdentityTransform()
	if _, ok := storage["extra"]; !ok {
		t.Fatal("joint map storage was not reused")
	}
}

func TestBlendPoses(t *testing.T) {
	a := model.Pose{Kind: model.PayloadJoints, Joints: map[model.JointID]model.Transform{
		"shared": translated(0, 0, 0),
		"onlyA":  translated(1, 1, 1),
	}}
	b := model.Pose{Kind: model.PayloadJoints, Joints: map[model.JointID]model.Transform{
		"shared": translated(4, 0, 0),
		"onlyB":  translated(2, 2, 2),
	}}

	var dst model.Pose
	BlendPoses(&dst, &a, &b, 0.25)
	if !dst.Joints["shared"].ApproxEqual(translated(1, 0, 0), eps) {
		t.Errorf("shared = %+v", dst.Joints["shared"])
	}
	if dst.Joints["onlyA"] != a.Joints["onlyA"] || dst.Joints["onlyB"] != b.Joints["onlyB"] {
		t.Errorf("one-sided joints not carried: %+v", dst.Joints)
	}

	BlendPoses(&dst, &a, &b, 1)
	if !maps.Equal(dst.Joints, b.Joints) {
		t.Errorf("weight 1 = %+v, want %+v", dst.Joints, b.Joints)
	}

	sa := model.Pose{Kind: model.PayloadScalar, Scalar: 2}
	sb := model.Pose{Kind: model.PayloadScalar, Scalar: 6}
	BlendPoses(&dst, &sa, &sb, 0.5)
	if dst.Kind != model.PayloadScalar || !near(dst.Scalar, 4) {
		t.Errorf("scalar blend = %+v", dst)
	}

	BlendPoses(&dst, &sa, &b, 0.5)
	if !maps.Equal(dst.Joints, b.Joints) {
		t.Errorf("mismatched kinds should take b, got %+v", dst)
	}
}

func BenchmarkSampleInto(b *testing.B) {
	joints := make([]model.Joint, 0, 64)
	key0 := make(map[model.JointID]model.Transform, 64)
	key1 := make(map[model.JointID]model.Transform, 64)
	var parent model.JointID
	for i := range 64 {
		id := model.JointID(string(rune('A' + i%26)) + string(rune('a'+i/26)))
		joints = append(joints, model.Joint{ID: id, Parent: parent, BindPose: model.IdentityTransform()})
		parent = id
		key0[id] = translated(float32(i), 0, 0)
		key1[id] = rotated(float32(i)*0.01, mgl32.Vec3{0, 1, 0})
	}
	skel, err := model.NewSkeleton(joints)
	if err != nil {
		b.Fatal(err)
	}
	k0, _ := model.NewJointKeyFrame(0, key0)
	k1, _ := model.NewJointKeyFrame(1, key1)
	clip, err := model.NewAnimationClip([]model.KeyFrame{k0, k1}, model.WithLoopPolicy(model.LoopRepeat))
	if err != nil {
		b.Fatal(err)
	}

	var pose model.Pose
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		SampleInto(&pose, clip, skel, float32(i)*0.016)
	}
}
