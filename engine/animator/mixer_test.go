package animator

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

func TestMixerAdvancesEveryController(t *testing.T) {
	clip := scalarClip(t, model.LoopRepeat, 0, 0, 1, 10, 2, 0)

	cases := []struct {
		name        string
		controllers int
		options     []MixerBuilderOption
	}{
		{"inline", 3, nil},
		{"pooled", 37, []MixerBuilderOption{WithWorkers(4), WithBatchSize(2), WithQueueSize(8)}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := NewMixer(c.options...)
			defer m.Release()

			ctrls := make([]Controller, c.controllers)
			for i := range ctrls {
				ctrls[i] = NewController(WithClip(clip))
				m.Add(ctrls[i])
			}
			m.Add(ctrls[0])
			if m.Len() != c.controllers {
				t.Fatalf("Len = %d, want %d", m.Len(), c.controllers)
			}

			for range 3 {
				if err := m.Advance(0.5); err != nil {
					t.Fatal(err)
				}
			}
			for i, ctrl := range ctrls {
				if !near(ctrl.Time(), 1.5) || !near(ctrl.Pose().Scalar, 5) {
					t.Fatalf("controller %d: time=%v scalar=%v", i, ctrl.Time(), ctrl.Pose().Scalar)
				}
			}
		})
	}
}

func TestMixerRejectsNegativeDelta(t *testing.T) {
	clip := scalarClip(t, model.LoopClamp, 0, 0, 1, 1)
	ctrl := NewController(WithClip(clip))
	m := NewMixer(WithControllers(ctrl))
	defer m.Release()

	for _, dt := range []float32{-1, float32(math.Inf(1))} {
		if err := m.Advance(dt); !errors.Is(err, ErrNegativeDelta) {
			t.Fatalf("Advance(%v) = %v", dt, err)
		}
	}
	if ctrl.Time() != 0 {
		t.Fatalf("rejected tick moved the controller to %v", ctrl.Time())
	}
}

func TestMixerRemove(t *testing.T) {
	clip := scalarClip(t, model.LoopClamp, 0, 0, 1, 1)
	a := NewController(WithClip(clip))
	b := NewController(WithClip(clip))
	m := NewMixer(WithControllers(a, b))
	defer m.Release()

	if !m.Remove(a) {
		t.Fatal("Remove(a) reported not registered")
	}
	if m.Remove(a) {
		t.Fatal("second Remove(a) reported registered")
	}
	if err := m.Advance(0.25); err != nil {
		t.Fatal(err)
	}
	if a.Time() != 0 || b.Time() != 0.25 {
		t.Fatalf("a=%v b=%v", a.Time(), b.Time())
	}
	if got := m.Controllers(); len(got) != 1 || got[0] != b {
		t.Fatalf("Controllers = %v", got)
	}
}

func BenchmarkMixerAdvance(b *testing.B) {
	k0, _ := model.NewScalarKeyFrame(0, 0)
	k1, _ := model.NewScalarKeyFrame(1, 1)
	clip, err := model.NewAnimationClip([]model.KeyFrame{k0, k1}, model.WithLoopPolicy(model.LoopRepeat))
	if err != nil {
		b.Fatal(err)
	}

	m := NewMixer()
	defer m.Release()
	for range 4096 {
		m.Add(NewController(WithClip(clip)))
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := m.Advance(1.0 / 60); err != nil {
			b.Fatal(err)
		}
	}
}
