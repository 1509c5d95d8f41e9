package model

import (
	"slices"
	"sort"
)

// model is the implementation of the Model interface.
type model struct {
	name     string
	skeleton *Skeleton
	clips    map[string]*AnimationClip
}

// Model defines the interface for a loaded animation asset.
// A Model bundles the Skeleton of a rig with the named clips authored for it. It is produced
// by the Loader and shared read-only by every controller that plays its clips.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Skinned reports whether this model carries a skeleton.
	//
	// Returns:
	//   - bool: true if the model has joint data
	Skinned() bool

	// Skeleton retrieves the joint hierarchy for this model.
	// Returns nil for models that only carry scalar curves.
	//
	// Returns:
	//   - *Skeleton: the skeleton or nil
	Skeleton() *Skeleton

	// Clip retrieves an animation clip by name.
	//
	// Parameters:
	//   - name: the clip name
	//
	// Returns:
	//   - *AnimationClip: the clip, or nil if the model has no clip with that name
	Clip(name string) *AnimationClip

	// Clips retrieves all animation clips sorted by name.
	//
	// Returns:
	//   - []*AnimationClip: the animation clips
	Clips() []*AnimationClip

	// ClipCount returns the number of available animation clips.
	//
	// Returns:
	//   - int: the clip count
	ClipCount() int

	// ClipNames returns the names of all animation clips, sorted.
	//
	// Returns:
	//   - []string: the clip names
	ClipNames() []string
}

var _ Model = &model{}

// NewModel creates a new Model with the provided options applied.
//
// Parameters:
//   - options: variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: the constructed model
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{
		clips: make(map[string]*AnimationClip),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Skinned() bool {
	return m.skeleton != nil
}

func (m *model) Skeleton() *Skeleton {
	return m.skeleton
}

func (m *model) Clip(name string) *AnimationClip {
	return m.clips[name]
}

func (m *model) Clips() []*AnimationClip {
	clips := make([]*AnimationClip, 0, len(m.clips))
	for _, c := range m.clips {
		clips = append(clips, c)
	}
	sort.Slice(clips, func(i, j int) bool {
		return clips[i].Name() < clips[j].Name()
	})
	return clips
}

func (m *model) ClipCount() int {
	return len(m.clips)
}

func (m *model) ClipNames() []string {
	names := make([]string, 0, len(m.clips))
	for name := range m.clips {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
