package model

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithSkeleton is an option builder that sets the joint hierarchy of the Model.
//
// Parameters:
//   - skeleton: the skeleton to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the skeleton option to a model
func WithSkeleton(skeleton *Skeleton) ModelBuilderOption {
	return func(m *model) {
		m.skeleton = skeleton
	}
}

// WithClips is an option builder that adds animation clips to the Model, keyed by clip name.
// A later clip with the same name replaces an earlier one.
//
// Parameters:
//   - clips: the animation clips to add
//
// Returns:
//   - ModelBuilderOption: a function that applies the clips option to a model
func WithClips(clips ...*AnimationClip) ModelBuilderOption {
	return func(m *model) {
		for _, c := range clips {
			if c == nil {
				continue
			}
			m.clips[c.Name()] = c
		}
	}
}
