// Command posebench drives many animation controllers headlessly and reports pose throughput.
//
// Profiling:
//
//	go build ./cmd/posebench
//	./posebench -profile cpu -controllers 5000
//	go tool pprof -http=":8000" ./posebench cpu.pprof
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/loader"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/profiler"
	"github.com/Carmen-Shannon/oxy-anim/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/profile"
)

type config struct {
	controllers int
	ticks       int
	dt          float64
	workers     int
	batch       int
	joints      int
	keys        int
	assets      string
	fadeEvery   int
	fade        float64
	palette     bool
	profileMode string
	profileDir  string
}

func main() {
	var cfg config
	flag.IntVar(&cfg.controllers, "controllers", 1000, "Number of animated controllers")
	flag.IntVar(&cfg.ticks, "ticks", 600, "Number of ticks to simulate")
	flag.Float64Var(&cfg.dt, "dt", 1.0/60.0, "Seconds per tick")
	flag.IntVar(&cfg.workers, "workers", 0, "Mixer workers (0 = NumCPU-1)")
	flag.IntVar(&cfg.batch, "batch", 0, "Controllers per mixer batch (0 = default)")
	flag.IntVar(&cfg.joints, "joints", 32, "Joints in the synthetic skeleton")
	flag.IntVar(&cfg.keys, "keys", 24, "Keyframes per synthetic clip")
	flag.StringVar(&cfg.assets, "assets", "", "Directory of .yaml/.gltf/.glb assets to animate instead of the synthetic rig")
	flag.IntVar(&cfg.fadeEvery, "fade-every", 90, "Ticks between crossfades on a quarter of the controllers (0 = never)")
	flag.Float64Var(&cfg.fade, "fade", 0.3, "Crossfade duration in seconds")
	flag.BoolVar(&cfg.palette, "palette", false, "Also compute skinning palettes every tick")
	flag.StringVar(&cfg.profileMode, "profile", "", "Profile mode: cpu, mem or empty for none")
	flag.StringVar(&cfg.profileDir, "profile-dir", ".", "Directory for profile output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(cfg); err != nil {
		log.Fatalf("[PoseBench] %v", err)
	}
}

func run(cfg config) error {
	if cfg.controllers < 1 || cfg.ticks < 1 {
		return fmt.Errorf("need at least one controller and one tick, got %d and %d", cfg.controllers, cfg.ticks)
	}

	switch cfg.profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.profileDir), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath(cfg.profileDir), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q", cfg.profileMode)
	}

	models, err := loadModels(cfg)
	if err != nil {
		return err
	}

	controllers, err := spawn(models, cfg.controllers)
	if err != nil {
		return err
	}

	options := []animator.MixerBuilderOption{animator.WithControllers(controllers...)}
	if cfg.workers > 0 {
		options = append(options, animator.WithWorkers(cfg.workers))
	}
	if cfg.batch > 0 {
		options = append(options, animator.WithBatchSize(cfg.batch))
	}
	mixer := animator.NewMixer(options...)
	defer mixer.Release()

	var palettes []*renderer.Palette
	if cfg.palette {
		palettes = make([]*renderer.Palette, len(controllers))
		for i, c := range controllers {
			if sk := c.Skeleton(); sk != nil {
				palettes[i] = renderer.NewPalette(sk)
			}
		}
	}

	log.Printf("[PoseBench] %d controllers over %d models, %d workers, %d ticks", len(controllers), len(models), mixer.Workers(), cfg.ticks)

	prof := profiler.NewProfiler(profiler.WithMemStats(cfg.profileMode == ""))
	dt := float32(cfg.dt)
	start := time.Now()
	for tick := 1; tick <= cfg.ticks; tick++ {
		if cfg.fadeEvery > 0 && tick%cfg.fadeEvery == 0 {
			if err := swapClips(controllers, models, float32(cfg.fade), tick/cfg.fadeEvery); err != nil {
				return err
			}
		}
		if err := mixer.Advance(dt); err != nil {
			return err
		}
		for i, p := range palettes {
			pose := controllers[i].Pose()
			if p == nil || pose == nil || pose.Kind != model.PayloadJoints {
				continue
			}
			if err := p.Update(pose, mgl32.Ident4()); err != nil {
				return fmt.Errorf("palette %d: %w", i, err)
			}
		}
		prof.AddPoses(len(controllers))
		prof.Tick()
	}
	elapsed := time.Since(start)

	prof.Summary()
	log.Printf("[PoseBench] %.3f µs per controller tick", float64(elapsed.Microseconds())/float64(cfg.ticks*len(controllers)))
	return nil
}

// loadModels loads every asset with at least one clip, or builds the synthetic rig.
func loadModels(cfg config) ([]model.Model, error) {
	if cfg.assets == "" {
		m, err := synthModel(cfg.joints, cfg.keys)
		if err != nil {
			return nil, err
		}
		return []model.Model{m}, nil
	}

	loaded, err := loader.NewLoader().LoadDir(cfg.assets)
	if err != nil {
		return nil, err
	}
	var models []model.Model
	for _, m := range loaded {
		if m.ClipCount() > 0 {
			models = append(models, m)
		}
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("no animated models in %s", cfg.assets)
	}
	return models, nil
}

// spawn creates n controllers round-robin over the models, each starting on a different clip
// and at a staggered cursor.
func spawn(models []model.Model, n int) ([]animator.Controller, error) {
	controllers := make([]animator.Controller, n)
	for i := range controllers {
		m := models[i%len(models)]
		clips := m.Clips()
		clip := clips[(i/len(models))%len(clips)]

		c := animator.NewController(animator.WithSkeleton(m.Skeleton()))
		if err := c.Play(clip); err != nil {
			return nil, err
		}
		c.SetTime(clip.Duration() * float32(i%97) / 97)
		controllers[i] = c
	}
	return controllers, nil
}

// swapClips crossfades every fourth controller to the next clip of the same payload kind,
// rotating which quarter each round.
func swapClips(controllers []animator.Controller, models []model.Model, fade float32, round int) error {
	for i := round % 4; i < len(controllers); i += 4 {
		c := controllers[i]
		next := nextClip(models[i%len(models)].Clips(), c.Clip())
		if next == nil {
			continue
		}
		if err := c.CrossfadeTo(next, fade); err != nil {
			return fmt.Errorf("controller %d: %w", i, err)
		}
	}
	return nil
}

func nextClip(clips []*model.AnimationClip, current *model.AnimationClip) *model.AnimationClip {
	at := -1
	for k, clip := range clips {
		if clip == current {
			at = k
			break
		}
	}
	if at < 0 {
		return nil
	}
	for step := 1; step < len(clips); step++ {
		if clip := clips[(at+step)%len(clips)]; clip.Kind() == current.Kind() {
			return clip
		}
	}
	return nil
}
