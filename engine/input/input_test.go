package input

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/common"
)

func TestSnapshot(t *testing.T) {
	s := NewSnapshot(IntentForward, IntentLeft, Intent(99))
	if !s.Forward() || !s.Left() || s.Back() || s.Up() {
		t.Fatalf("snapshot %v has the wrong intents", s)
	}
	if !s.Moving() || s.Idle() {
		t.Fatalf("snapshot %v: moving=%v idle=%v", s, s.Moving(), s.Idle())
	}
	if got := s.String(); got != "forward+left" {
		t.Fatalf("String = %q", got)
	}

	s = s.Without(IntentForward).Without(IntentLeft)
	if !s.Idle() || s.String() != "idle" {
		t.Fatalf("released snapshot = %v", s)
	}
	if NewSnapshot(IntentUp).Moving() {
		t.Fatal("vertical intent counted as planar movement")
	}
}

func TestParseIntent(t *testing.T) {
	for _, want := range Intents {
		got, err := ParseIntent(" " + want.String() + " ")
		if err != nil || got != want {
			t.Fatalf("ParseIntent(%q) = %v, %v", want, got, err)
		}
	}
	if _, err := ParseIntent("sideways"); err == nil {
		t.Fatal("unknown intent parsed")
	}
}

func TestPoll(t *testing.T) {
	cases := []struct {
		name string
		keys []uint32
		want Snapshot
	}{
		{"none", nil, 0},
		{"wasd", []uint32{common.KeyW, common.KeyD}, NewSnapshot(IntentForward, IntentRight)},
		{"arrows", []uint32{common.KeyDown, common.KeyLeft}, NewSnapshot(IntentBack, IntentLeft)},
		{"vertical", []uint32{common.KeySpace, common.KeyE}, NewSnapshot(IntentUp, IntentDown)},
		{"unbound", []uint32{common.KeyEsc}, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ks := NewKeyState()
			for _, k := range c.keys {
				ks.Press(k)
			}
			if got := Poll(ks, DefaultBindings()); got != c.want {
				t.Fatalf("Poll = %v, want %v", got, c.want)
			}
		})
	}
}

func TestKeyStateRelease(t *testing.T) {
	ks := NewKeyState()
	ks.Press(common.KeyW)
	ks.Press(common.KeyA)
	ks.Release(common.KeyW)
	if ks.KeyPressed(common.KeyW) || !ks.KeyPressed(common.KeyA) {
		t.Fatal("release did not clear only W")
	}
	ks.Reset()
	if Poll(ks, DefaultBindings()) != 0 {
		t.Fatal("Reset left keys held")
	}
}

func TestBindingsBind(t *testing.T) {
	defaults := DefaultBindings()
	custom := defaults.Bind(IntentForward, common.KeyE)

	ks := NewKeyState()
	ks.Press(common.KeyE)
	if got := Poll(ks, custom); !got.Forward() {
		t.Fatalf("rebound E did not trigger forward: %v", got)
	}
	if len(defaults[IntentForward]) != 2 || defaults[IntentForward][0] != common.KeyW {
		t.Fatal("Bind mutated the original bindings")
	}
	if got := Bindings(nil).Bind(IntentUp, common.KeyQ); len(got) != 1 {
		t.Fatalf("Bind on nil = %v", got)
	}
}
