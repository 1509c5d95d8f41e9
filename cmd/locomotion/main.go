// Command locomotion opens a window and drives one animated character from the keyboard.
//
// WASD or the arrow keys walk, Space or Q jumps, E or Left Control crouches and Escape quits.
// Clip transitions are logged; nothing is drawn.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/engine/input"
	"github.com/Carmen-Shannon/oxy-anim/engine/loader"
	"github.com/Carmen-Shannon/oxy-anim/engine/profiler"
	"github.com/Carmen-Shannon/oxy-anim/engine/window"
)

const windowTitle = "Locomotion"

type config struct {
	asset  string
	script string
	rules  string
	watch  bool
	stats  bool
	poll   bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.asset, "asset", "", "Model file (.yaml/.gltf/.glb) with idle, walk, jump and crouch clips; built-in rig when empty")
	flag.StringVar(&cfg.script, "script", "", "Tengo selector script; built-in script when empty")
	flag.StringVar(&cfg.rules, "rules", "", "YAML rule table selector, overrides -script")
	flag.BoolVar(&cfg.watch, "watch", false, "Hot-reload -asset when its directory changes")
	flag.BoolVar(&cfg.stats, "stats", false, "Log frame and pose statistics")
	flag.BoolVar(&cfg.poll, "poll", false, "Poll key state from the window instead of tracking key events")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(cfg); err != nil {
		log.Fatalf("[Locomotion] %v", err)
	}
}

func run(cfg config) error {
	if cfg.watch && cfg.asset == "" {
		return fmt.Errorf("-watch needs -asset")
	}

	l := loader.NewLoader()
	m, err := loadModel(l, cfg.asset)
	if err != nil {
		return err
	}
	sel, err := loadSelector(cfg.rules, cfg.script)
	if err != nil {
		return err
	}

	win, err := window.NewWindow(window.WithTitle(windowTitle), window.WithSize(640, 360))
	if err != nil {
		return err
	}

	var keys input.KeySource = win
	if !cfg.poll {
		state := input.NewKeyState()
		win.SetKeyDownCallback(state.Press)
		win.SetKeyUpCallback(state.Release)
		keys = state
	}

	var prof *profiler.Profiler
	if cfg.stats {
		prof = profiler.NewProfiler(profiler.WithInterval(5 * time.Second))
	}
	d := newDemo(m, sel, keys, prof)

	if cfg.watch {
		w, err := loader.NewWatcher(l, 0, filepath.Dir(cfg.asset))
		if err != nil {
			_ = win.Close()
			return err
		}
		defer w.Close()
		d.reloads = w.Events
		go func() {
			for err := range w.Errors {
				log.Printf("[Locomotion] reload failed: %v", err)
			}
		}()
	}

	log.Printf("[Locomotion] %s: %v", m.Name(), m.ClipNames())
	win.SetTitle(d.title(windowTitle))

	var runErr error
	win.SetUpdateCallback(func(dt float32) {
		changed, err := d.step(dt)
		if err != nil {
			runErr = err
			_ = win.Close()
			return
		}
		if changed {
			win.SetTitle(d.title(windowTitle))
		}
	})
	win.ProcessMessages()
	_ = win.Close()

	if prof != nil {
		prof.Summary()
	}
	return runErr
}
