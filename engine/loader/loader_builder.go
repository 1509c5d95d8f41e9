package loader

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithRootDir is an option builder that sets the directory relative asset paths resolve against.
//
// Parameters:
//   - dir: the asset root directory
//
// Returns:
//   - LoaderBuilderOption: a function that applies the root directory option to a loader
func WithRootDir(dir string) LoaderBuilderOption {
	return func(l *loader) {
		l.rootDir = dir
	}
}

// WithClipPolicy is an option builder that sets the loop policy of clips imported from formats
// that do not carry one, such as glTF. The default is model.LoopRepeat.
//
// Parameters:
//   - policy: the loop policy for imported clips
//
// Returns:
//   - LoaderBuilderOption: a function that applies the clip policy option to a loader
func WithClipPolicy(policy model.LoopPolicy) LoaderBuilderOption {
	return func(l *loader) {
		l.clipPolicy = policy
	}
}

// WithModel is an option builder that pre-populates the model cache with a model,
// keyed by its name.
//
// Parameters:
//   - m: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(m model.Model) LoaderBuilderOption {
	return func(l *loader) {
		if m == nil {
			return
		}
		l.modelCache[m.Name()] = m
	}
}
