package game_object

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/behavior"
	"github.com/Carmen-Shannon/oxy-anim/engine/input"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

func curve(t *testing.T, name string, from, to float32) *model.AnimationClip {
	t.Helper()
	a, err := model.NewScalarKeyFrame(0, from)
	if err != nil {
		t.Fatal(err)
	}
	b, err := model.NewScalarKeyFrame(1, to)
	if err != nil {
		t.Fatal(err)
	}
	clip, err := model.NewAnimationClip([]model.KeyFrame{a, b}, model.WithClipName(name), model.WithLoopPolicy(model.LoopRepeat))
	if err != nil {
		t.Fatal(err)
	}
	return clip
}

func locomotionModel(t *testing.T, walkPeak float32) model.Model {
	t.Helper()
	return model.NewModel(
		model.WithName("hero"),
		model.WithClips(curve(t, "idle", 0, 0), curve(t, "walk", 0, walkPeak)),
	)
}

func walkSelector(t *testing.T) behavior.Selector {
	t.Helper()
	sel, err := behavior.NewTableSelector(
		behavior.Rule{Any: []input.Intent{input.IntentForward}, Clip: "walk", Fade: 0.5},
		behavior.Rule{Clip: "idle", Fade: 0.5},
	)
	if err != nil {
		t.Fatal(err)
	}
	return sel
}

func TestNewGameObjectBuildsController(t *testing.T) {
	obj := NewGameObject(WithID(7), WithModel(locomotionModel(t, 1)), WithInitialClip("idle"), WithPosition(1, 2, 3))

	if obj.ID() != 7 || !obj.Enabled() {
		t.Fatalf("id=%d enabled=%v", obj.ID(), obj.Enabled())
	}
	if obj.Controller() == nil || obj.CurrentClip() != "idle" {
		t.Fatalf("controller=%v current=%q", obj.Controller(), obj.CurrentClip())
	}
	if obj.Transform().Translation != (mgl32.Vec3{1, 2, 3}) || obj.Transform().Scale != (mgl32.Vec3{1, 1, 1}) {
		t.Fatalf("transform = %+v", obj.Transform())
	}

	pose, err := obj.Update(0.25, 0)
	if err != nil || pose == nil || pose.Kind != model.PayloadScalar {
		t.Fatalf("Update = %+v, %v", pose, err)
	}
}

func TestGameObjectUpdateFollowsSelector(t *testing.T) {
	obj := NewGameObject(WithModel(locomotionModel(t, 8)), WithInitialClip("idle"), WithSelector(walkSelector(t)))
	forward := input.NewSnapshot(input.IntentForward)

	if _, err := obj.Update(0.25, forward); err != nil {
		t.Fatal(err)
	}
	c := obj.Controller()
	if !c.IsCrossFading() || obj.CurrentClip() != "walk" || c.Clip().Name() != "idle" {
		t.Fatalf("state=%v current=%q", c.State(), obj.CurrentClip())
	}

	// Holding forward keeps the fade running instead of restarting it.
	pose, err := obj.Update(0.25, forward)
	if err != nil {
		t.Fatal(err)
	}
	if c.IsCrossFading() || c.Clip().Name() != "walk" {
		t.Fatalf("fade did not complete: state=%v clip=%q", c.State(), c.Clip().Name())
	}
	if !near(pose.Scalar, 4) {
		t.Fatalf("walk pose = %v, want 4", pose.Scalar)
	}

	if _, err := obj.Update(0.1, 0); err != nil {
		t.Fatal(err)
	}
	if obj.CurrentClip() != "idle" {
		t.Fatalf("release did not head back to idle: %q", obj.CurrentClip())
	}
}

func TestGameObjectBadSelectionKeepsPlaying(t *testing.T) {
	cases := []struct {
		name string
		sel  behavior.Selector
	}{
		{"unknown_clip", behavior.SelectorFunc(func(input.Snapshot, string) (behavior.Selection, error) {
			return behavior.Selection{Clip: "fly", Fade: 0.2}, nil
		})},
		{"selector_error", behavior.SelectorFunc(func(input.Snapshot, string) (behavior.Selection, error) {
			return behavior.Selection{}, behavior.ErrScript
		})},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			obj := NewGameObject(WithModel(locomotionModel(t, 1)), WithInitialClip("walk"), WithSelector(c.sel))
			for range 3 {
				pose, err := obj.Update(0.1, input.NewSnapshot(input.IntentUp))
				if err != nil || pose == nil {
					t.Fatalf("Update = %v, %v", pose, err)
				}
			}
			if obj.CurrentClip() != "walk" {
				t.Fatalf("current = %q", obj.CurrentClip())
			}
			if !near(obj.Controller().Time(), 0.3) {
				t.Fatalf("cursor = %v, want 0.3", obj.Controller().Time())
			}
		})
	}
}

func TestGameObjectUpdateGuards(t *testing.T) {
	obj := NewGameObject(WithModel(locomotionModel(t, 1)), WithInitialClip("walk"))
	for _, dt := range []float32{-1, float32(math.Inf(1))} {
		if _, err := obj.Update(dt, 0); !errors.Is(err, animator.ErrNegativeDelta) {
			t.Fatalf("Update(%v) err = %v", dt, err)
		}
	}
	if obj.Controller().Time() != 0 {
		t.Fatalf("negative dt moved the cursor to %v", obj.Controller().Time())
	}

	obj.SetEnabled(false)
	if pose, err := obj.Update(0.5, 0); pose != nil || err != nil || obj.Controller().Time() != 0 {
		t.Fatalf("disabled Update = %v, %v", pose, err)
	}

	bare := NewGameObject()
	if pose, err := bare.Update(0.5, 0); pose != nil || err != nil {
		t.Fatalf("bare Update = %v, %v", pose, err)
	}
	if err := bare.Play("walk"); !errors.Is(err, ErrUnknownClip) {
		t.Fatalf("bare Play err = %v", err)
	}
	if bare.CurrentClip() != "" || bare.Pose() != nil || bare.Skeleton() != nil {
		t.Fatal("bare object reported animation state")
	}
}

func TestGameObjectSetModel(t *testing.T) {
	obj := NewGameObject(WithModel(locomotionModel(t, 1)), WithInitialClip("idle"))
	if err := obj.CrossfadeTo("run", 0.2); !errors.Is(err, ErrUnknownClip) {
		t.Fatalf("CrossfadeTo(run) = %v", err)
	}

	reloaded := model.NewModel(model.WithName("hero"), model.WithClips(curve(t, "idle", 0, 0), curve(t, "run", 0, 5)))
	obj.SetModel(reloaded)
	if err := obj.Play("run"); err != nil {
		t.Fatal(err)
	}
	pose, err := obj.Update(0.5, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !near(pose.Scalar, 2.5) {
		t.Fatalf("run pose = %v", pose.Scalar)
	}
}

func TestGameObjectSkeletonOverride(t *testing.T) {
	sk, err := model.NewSkeleton([]model.Joint{{ID: "root", BindPose: model.IdentityTransform()}})
	if err != nil {
		t.Fatal(err)
	}
	obj := NewGameObject(WithModel(locomotionModel(t, 1)), WithSkeleton(sk))
	if obj.Skeleton() != sk || obj.Controller().Skeleton() != sk {
		t.Fatal("explicit skeleton not used")
	}
}

func near(a, b float32) bool {
	return mgl32.Abs(a-b) <= 1e-5
}
