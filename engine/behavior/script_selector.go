package behavior

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/engine/input"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// DefaultScriptTimeout bounds a single script run.
const DefaultScriptTimeout = 20 * time.Millisecond

// Script globals. Scripts assign to clip and fade (with =, not :=) and read the rest.
const (
	scriptVarInput   = "input"
	scriptVarMoving  = "moving"
	scriptVarCurrent = "current"
	scriptVarClip    = "clip"
	scriptVarFade    = "fade"
)

// ScriptSelector is a Selector backed by a compiled tengo script.
//
// Each Select runs the whole script with these globals set:
//
//	input   - map of intent name to bool, e.g. input.forward
//	moving  - true if any planar intent is held
//	current - name of the clip currently playing
//	clip    - reset to "" before each run; assign the clip to play
//	fade    - reset to 0 before each run; assign the crossfade duration
//
// A ScriptSelector serializes its own runs. Use Clone to give each entity its own copy of the
// compiled program when selecting from several goroutines.
type ScriptSelector struct {
	mu       sync.Mutex
	compiled *tengo.Compiled
	timeout  time.Duration
}

var _ Selector = &ScriptSelector{}

// NewScriptSelector compiles a selector script. The tengo standard library modules are
// available through import.
//
// Parameters:
//   - src: the script source
//   - timeout: the run time limit per Select, DefaultScriptTimeout when not positive
//
// Returns:
//   - *ScriptSelector: the compiled selector
//   - error: ErrScript wrapping the compile error
func NewScriptSelector(src []byte, timeout time.Duration) (*ScriptSelector, error) {
	script := tengo.NewScript(src)
	_ = script.Add(scriptVarInput, map[string]any{})
	_ = script.Add(scriptVarMoving, false)
	_ = script.Add(scriptVarCurrent, "")
	_ = script.Add(scriptVarClip, "")
	_ = script.Add(scriptVarFade, 0.0)

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScript, err)
	}

	if timeout <= 0 {
		timeout = DefaultScriptTimeout
	}
	return &ScriptSelector{compiled: compiled, timeout: timeout}, nil
}

// LoadScriptSelector reads and compiles a selector script file.
//
// Parameters:
//   - path: the script file
//   - timeout: the run time limit per Select, DefaultScriptTimeout when not positive
//
// Returns:
//   - *ScriptSelector: the compiled selector
//   - error: error if the file cannot be read or does not compile
func LoadScriptSelector(path string, timeout time.Duration) (*ScriptSelector, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := NewScriptSelector(src, timeout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Clone returns an independent selector sharing the compiled bytecode.
//
// Returns:
//   - *ScriptSelector: the copy
func (s *ScriptSelector) Clone() *ScriptSelector {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &ScriptSelector{compiled: s.compiled.Clone(), timeout: s.timeout}
}

// Select runs the script for one snapshot.
//
// Parameters:
//   - snap: the intents held this tick
//   - current: the name of the clip currently playing
//
// Returns:
//   - Selection: the clip and fade the script assigned
//   - error: ErrScript wrapping a runtime error, a timeout or a negative fade
func (s *ScriptSelector) Select(snap input.Snapshot, current string) (Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	held := make(map[string]tengo.Object, len(input.Intents))
	for _, intent := range input.Intents {
		held[intent.String()] = boolObject(snap.Has(intent))
	}

	vars := []struct {
		name  string
		value any
	}{
		{scriptVarInput, &tengo.ImmutableMap{Value: held}},
		{scriptVarMoving, snap.Moving()},
		{scriptVarCurrent, current},
		{scriptVarClip, ""},
		{scriptVarFade, 0.0},
	}
	for _, v := range vars {
		if err := s.compiled.Set(v.name, v.value); err != nil {
			return Selection{}, fmt.Errorf("%w: %w", ErrScript, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.compiled.RunContext(ctx); err != nil {
		return Selection{}, fmt.Errorf("%w: %w", ErrScript, err)
	}

	sel := Selection{
		Clip: strings.TrimSpace(s.compiled.Get(scriptVarClip).String()),
		Fade: float32(s.compiled.Get(scriptVarFade).Float()),
	}
	if sel.Fade < 0 {
		return Selection{}, fmt.Errorf("%w: negative fade %v", ErrScript, sel.Fade)
	}
	return sel, nil
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}
