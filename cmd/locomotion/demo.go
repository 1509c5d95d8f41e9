package main

import (
	"bytes"
	_ "embed"
	"fmt"
	"log"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/behavior"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/Carmen-Shannon/oxy-anim/engine/input"
	"github.com/Carmen-Shannon/oxy-anim/engine/loader"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/profiler"
)

//go:embed hero.yaml
var heroAsset []byte

//go:embed locomotion.tengo
var locomotionScript []byte

const initialClip = "idle"

// demo drives one animated object from held keys.
type demo struct {
	obj      game_object.GameObject
	keys     input.KeySource
	bindings input.Bindings
	prof     *profiler.Profiler
	reloads  <-chan loader.WatchEvent

	snap input.Snapshot
	clip string
}

// loadModel loads the asset at path, or the built-in hero rig when path is empty.
func loadModel(l loader.Loader, path string) (model.Model, error) {
	if path == "" {
		return l.LoadReader("hero", bytes.NewReader(heroAsset), loader.BackendTypeYAML)
	}
	return l.Load(path)
}

// loadSelector picks the rule table, a script file or the built-in script, in that order.
func loadSelector(rulesPath, scriptPath string) (behavior.Selector, error) {
	switch {
	case rulesPath != "":
		return behavior.LoadTableSelector(rulesPath)
	case scriptPath != "":
		return behavior.LoadScriptSelector(scriptPath, behavior.DefaultScriptTimeout)
	default:
		return behavior.NewScriptSelector(locomotionScript, behavior.DefaultScriptTimeout)
	}
}

func newDemo(m model.Model, sel behavior.Selector, keys input.KeySource, prof *profiler.Profiler) *demo {
	obj := game_object.NewGameObject(
		game_object.WithID(1),
		game_object.WithModel(m),
		game_object.WithSelector(sel),
		game_object.WithInitialClip(initialClip),
	)
	return &demo{
		obj:      obj,
		keys:     keys,
		bindings: input.DefaultBindings(),
		prof:     prof,
		clip:     obj.CurrentClip(),
	}
}

// step polls input, applies any pending reload and advances the object by dt seconds.
// It reports whether the playing clip changed.
func (d *demo) step(dt float32) (bool, error) {
	d.drainReloads()

	snap := input.Poll(d.keys, d.bindings)
	if snap != d.snap {
		log.Printf("[Locomotion] input %s", snap)
		d.snap = snap
	}

	pose, err := d.obj.Update(dt, snap)
	if err != nil {
		return false, err
	}
	if d.prof != nil {
		if pose != nil {
			d.prof.AddPoses(1)
		}
		d.prof.Tick()
	}

	clip := d.obj.CurrentClip()
	if clip == d.clip {
		return false, nil
	}
	log.Printf("[Locomotion] %s -> %s (%s)", d.clip, clip, snap)
	d.clip = clip
	return true, nil
}

func (d *demo) drainReloads() {
	if d.reloads == nil {
		return
	}
	for {
		select {
		case ev, ok := <-d.reloads:
			if !ok {
				d.reloads = nil
				return
			}
			d.reload(ev)
		default:
			return
		}
	}
}

// reload swaps in a reloaded model with the same name as the current one. The controller is
// rebuilt because the skeleton may have changed; the playing clip resumes from the start.
func (d *demo) reload(ev loader.WatchEvent) {
	current := d.obj.Model()
	if ev.Model == nil || current == nil || ev.Model.Name() != current.Name() {
		return
	}

	playing := d.obj.CurrentClip()
	d.obj.SetModel(ev.Model)
	d.obj.SetController(animator.NewController(animator.WithSkeleton(ev.Model.Skeleton())))
	if playing == "" {
		playing = initialClip
	}
	if err := d.obj.Play(playing); err != nil {
		log.Printf("[Locomotion] reload %s: %v", filepath.Base(ev.Path), err)
		if err := d.obj.Play(initialClip); err != nil {
			log.Printf("[Locomotion] reload %s: %v", filepath.Base(ev.Path), err)
		}
	}
	d.clip = d.obj.CurrentClip()
	log.Printf("[Locomotion] reloaded %s (%d clips)", ev.Model.Name(), ev.Model.ClipCount())
}

func (d *demo) title(base string) string {
	if d.clip == "" {
		return base
	}
	return fmt.Sprintf("%s - %s", base, d.clip)
}
