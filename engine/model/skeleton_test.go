package model

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func translated(x, y, z float32) Transform {
	t := IdentityTransform()
	t.Translation = mgl32.Vec3{x, y, z}
	return t
}

func TestNewSkeletonOrdersParentsFirst(t *testing.T) {
	// Supplied child-first on purpose.
	skel, err := NewSkeleton([]Joint{
		{ID: "hand", Parent: "arm", BindPose: translated(0, 0, 1)},
		{ID: "arm", Parent: "root", BindPose: translated(0, 1, 0)},
		{ID: "root", BindPose: translated(1, 0, 0)},
	})
	if err != nil {
		t.Fatal(err)
	}

	if skel.JointCount() != 3 {
		t.Fatalf("JointCount = %d", skel.JointCount())
	}
	for i := range skel.JointCount() {
		if p := skel.ParentIndex(i); p >= int32(i) {
			t.Fatalf("joint %d (%s) has parent index %d, expected parent before child", i, skel.JointAt(i).ID, p)
		}
	}
	if roots := skel.RootIndices(); len(roots) != 1 || skel.JointAt(int(roots[0])).ID != "root" {
		t.Fatalf("RootIndices = %v", roots)
	}
	if parent, ok := skel.Parent("hand"); !ok || parent != "arm" {
		t.Fatalf("Parent(hand) = %q, %v", parent, ok)
	}

	bind, ok := skel.BindPose("arm")
	if !ok || !bind.ApproxEqual(translated(0, 1, 0), 1e-6) {
		t.Fatalf("BindPose(arm) = %+v, %v", bind, ok)
	}
	if _, ok := skel.BindPose("tail"); ok {
		t.Fatal("BindPose reported an unknown joint")
	}
}

func TestNewSkeletonDerivesInverseBind(t *testing.T) {
	skel, err := NewSkeleton([]Joint{
		{ID: "root", BindPose: translated(1, 0, 0)},
		{ID: "child", Parent: "root", BindPose: translated(0, 2, 0)},
	})
	if err != nil {
		t.Fatal(err)
	}

	idx, _ := skel.Index("child")
	inv := skel.JointAt(int(idx)).InverseBindMatrix
	// Model-space bind of child is translate(1, 2, 0); its inverse undoes that.
	want := mgl32.Translate3D(-1, -2, 0)
	if !inv.ApproxEqualThreshold(want, 1e-5) {
		t.Fatalf("InverseBindMatrix = %v, want %v", inv, want)
	}
}

func TestNewSkeletonValidation(t *testing.T) {
	cases := []struct {
		name   string
		joints []Joint
		want   error
	}{
		{"empty", nil, ErrEmptySkeleton},
		{"duplicate", []Joint{{ID: "a"}, {ID: "a"}}, ErrDuplicateJoint},
		{"unknown_parent", []Joint{{ID: "a"}, {ID: "b", Parent: "ghost"}}, ErrUnknownParent},
		{"cycle", []Joint{{ID: "root"}, {ID: "a", Parent: "b"}, {ID: "b", Parent: "a"}}, ErrJointCycle},
		{"no_root", []Joint{{ID: "a", Parent: "a"}}, ErrJointCycle},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewSkeleton(c.joints)
			if !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}

func TestSkeletonMultipleRoots(t *testing.T) {
	skel, err := NewSkeleton([]Joint{{ID: "left"}, {ID: "right"}, {ID: "tip", Parent: "right"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(skel.RootIndices()) != 2 {
		t.Fatalf("expected 2 roots under the synthetic root, got %v", skel.RootIndices())
	}

	pose := skel.BindPosePose()
	if pose.Kind != PayloadJoints || len(pose.Joints) != 3 {
		t.Fatalf("BindPosePose = %+v", pose)
	}
}
