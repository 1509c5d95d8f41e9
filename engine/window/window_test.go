package window

import (
	"testing"
	"time"
)

func TestWindowOptions(t *testing.T) {
	cases := []struct {
		name          string
		opts          []WindowBuilderOption
		title         string
		width, height int
	}{
		{"defaults", nil, "oxy-anim", 960, 540},
		{"sized", []WindowBuilderOption{WithTitle("demo"), WithSize(640, 360)}, "demo", 640, 360},
		{"non_positive_keeps_default", []WindowBuilderOption{WithSize(0, -1)}, "oxy-anim", 960, 540},
		{"partial", []WindowBuilderOption{WithSize(800, 0)}, "oxy-anim", 800, 540},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := &engineWindow{title: "oxy-anim", width: 960, height: 540}
			for _, opt := range c.opts {
				opt(w)
			}
			if w.title != c.title || w.width != c.width || w.height != c.height {
				t.Fatalf("got %q %dx%d, want %q %dx%d", w.title, w.width, w.height, c.title, c.width, c.height)
			}
		})
	}
}

func TestWindowTick(t *testing.T) {
	start := time.Unix(100, 0)
	clock := start
	w := &engineWindow{now: func() time.Time { return clock }}

	var got []float32
	w.SetUpdateCallback(func(dt float32) { got = append(got, dt) })

	last := start
	for _, step := range []time.Duration{16 * time.Millisecond, 250 * time.Millisecond, 0} {
		clock = clock.Add(step)
		last = w.tick(last)
		if !last.Equal(clock) {
			t.Fatalf("tick returned %v, want %v", last, clock)
		}
	}

	want := []float32{0.016, 0.25, 0}
	if len(got) != len(want) {
		t.Fatalf("got %d updates, want %d", len(got), len(want))
	}
	for i := range want {
		if d := got[i] - want[i]; d > 1e-6 || d < -1e-6 {
			t.Fatalf("update %d: dt %v, want %v", i, got[i], want[i])
		}
	}

	w.SetUpdateCallback(nil)
	clock = clock.Add(time.Second)
	if last = w.tick(last); !last.Equal(clock) {
		t.Fatal("tick without callback did not advance")
	}
}

func TestProcessMessagesWithoutPlatformWindow(t *testing.T) {
	w := &engineWindow{now: time.Now}
	w.SetUpdateCallback(func(float32) { t.Fatal("update called on a closed window") })
	w.ProcessMessages()
	if w.IsRunning() || w.KeyPressed(65) {
		t.Fatal("closed window reports activity")
	}
	if err := w.Close(); err == nil {
		t.Fatal("closing an unopened window succeeded")
	}
}
