package behavior

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/engine/input"
)

const locomotionScript = `
math := import("math")

if input.up {
	clip = "jump"
	fade = 0.1
} else if moving {
	clip = "walk"
	fade = math.abs(-0.2)
} else if current != "idle" {
	clip = "idle"
	fade = 0.25
}
`

func TestTableSelectorDefaultRules(t *testing.T) {
	sel, err := NewTableSelector(DefaultRules()...)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		snap input.Snapshot
		want Selection
	}{
		{"idle", input.NewSnapshot(), Selection{"idle", 0.25}},
		{"forward", input.NewSnapshot(input.IntentForward), Selection{"walk", 0.2}},
		{"strafe", input.NewSnapshot(input.IntentLeft, input.IntentBack), Selection{"walk", 0.2}},
		{"up_beats_walk", input.NewSnapshot(input.IntentUp, input.IntentForward), Selection{"jump", 0.1}},
		{"down", input.NewSnapshot(input.IntentDown), Selection{"crouch", 0.15}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := sel.Select(c.snap, "idle")
			if err != nil {
				t.Fatal(err)
			}
			if got != c.want {
				t.Fatalf("Select(%v) = %+v, want %+v", c.snap, got, c.want)
			}
		})
	}
}

func TestTableSelectorAllAndFallthrough(t *testing.T) {
	sel, err := NewTableSelector(Rule{All: []input.Intent{input.IntentForward, input.IntentUp}, Clip: "leap", Fade: 0.05})
	if err != nil {
		t.Fatal(err)
	}

	got, _ := sel.Select(input.NewSnapshot(input.IntentForward, input.IntentUp, input.IntentLeft), "run")
	if got.Clip != "leap" {
		t.Fatalf("superset snapshot = %+v", got)
	}
	got, _ = sel.Select(input.NewSnapshot(input.IntentForward), "run")
	if !got.Keep("run") {
		t.Fatalf("unmatched snapshot = %+v, want keep", got)
	}
}

func TestNewTableSelectorRejects(t *testing.T) {
	cases := []struct {
		name  string
		rules []Rule
		want  error
	}{
		{"empty", nil, ErrNoRules},
		{"no_clip", []Rule{{Fade: 1}}, ErrInvalidRule},
		{"negative_fade", []Rule{{Clip: "a", Fade: -1}}, ErrInvalidRule},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := NewTableSelector(c.rules...); !errors.Is(err, c.want) {
				t.Fatalf("err = %v, want %v", err, c.want)
			}
		})
	}
}

func TestDecodeRules(t *testing.T) {
	src := "- {any: [Up], clip: jump, fade: 0.1}\n- {all: [forward, right], clip: veer}\n- {clip: idle}\n"
	rules, err := DecodeRules(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 3 || rules[0].Any[0] != input.IntentUp || len(rules[1].All) != 2 || rules[2].Clip != "idle" {
		t.Fatalf("rules = %+v", rules)
	}

	if _, err := DecodeRules(strings.NewReader("- {any: [sideways], clip: x}\n")); !errors.Is(err, ErrInvalidRule) {
		t.Fatalf("unknown intent err = %v", err)
	}
	if _, err := DecodeRules(strings.NewReader("")); !errors.Is(err, ErrNoRules) {
		t.Fatalf("empty document err = %v", err)
	}
	if _, err := DecodeRules(strings.NewReader("- {clip: x, speed: 2}\n")); err == nil {
		t.Fatal("unknown field decoded without error")
	}
}

func TestLoadTableSelector(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("- {any: [down], clip: crouch}\n- {clip: idle}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	sel, err := LoadTableSelector(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := sel.Select(input.NewSnapshot(input.IntentDown), ""); got.Clip != "crouch" {
		t.Fatalf("Select = %+v", got)
	}
}

func TestScriptSelector(t *testing.T) {
	sel, err := NewScriptSelector([]byte(locomotionScript), time.Second)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name    string
		snap    input.Snapshot
		current string
		want    Selection
	}{
		{"jump", input.NewSnapshot(input.IntentUp), "idle", Selection{"jump", 0.1}},
		{"walk", input.NewSnapshot(input.IntentRight), "idle", Selection{"walk", 0.2}},
		{"back_to_idle", input.NewSnapshot(), "walk", Selection{"idle", 0.25}},
		{"idle_keeps", input.NewSnapshot(), "idle", Selection{}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := sel.Select(c.snap, c.current)
			if err != nil {
				t.Fatal(err)
			}
			if got.Clip != c.want.Clip || got.Fade < c.want.Fade-1e-6 || got.Fade > c.want.Fade+1e-6 {
				t.Fatalf("Select(%v, %q) = %+v, want %+v", c.snap, c.current, got, c.want)
			}
		})
	}
}

func TestScriptSelectorErrors(t *testing.T) {
	if _, err := NewScriptSelector([]byte("clip = nope"), 0); !errors.Is(err, ErrScript) {
		t.Fatalf("compile err = %v", err)
	}

	negative, err := NewScriptSelector([]byte("clip = \"x\"\nfade = -1"), 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := negative.Select(0, ""); !errors.Is(err, ErrScript) {
		t.Fatalf("negative fade err = %v", err)
	}

	spin, err := NewScriptSelector([]byte("for { }"), 10*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := spin.Select(0, ""); !errors.Is(err, ErrScript) {
		t.Fatalf("runaway script err = %v", err)
	}
}

func TestScriptSelectorClonesRunConcurrently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locomotion.tengo")
	if err := os.WriteFile(path, []byte(locomotionScript), 0o644); err != nil {
		t.Fatal(err)
	}
	base, err := LoadScriptSelector(path, time.Second)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		sel := base.Clone()
		snap := input.NewSnapshot()
		want := "idle"
		if i%2 == 0 {
			snap = input.NewSnapshot(input.IntentForward)
			want = "walk"
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				got, err := sel.Select(snap, "")
				if err != nil {
					errs <- err
					return
				}
				if got.Clip != want {
					errs <- errors.New("clone returned " + got.Clip + ", want " + want)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func BenchmarkScriptSelector(b *testing.B) {
	sel, err := NewScriptSelector([]byte(locomotionScript), time.Second)
	if err != nil {
		b.Fatal(err)
	}
	snap := input.NewSnapshot(input.IntentForward)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := sel.Select(snap, "walk"); err != nil {
			b.Fatal(err)
		}
	}
}
