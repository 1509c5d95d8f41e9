package model

// ClipBuilderOption is a functional option for configuring an AnimationClip during construction.
type ClipBuilderOption func(*AnimationClip)

// WithClipName is an option builder that sets the identifier of the clip.
//
// Parameters:
//   - name: the clip identifier
//
// Returns:
//   - ClipBuilderOption: a function that applies the name option to a clip
func WithClipName(name string) ClipBuilderOption {
	return func(c *AnimationClip) {
		c.name = name
	}
}

// WithLoopPolicy is an option builder that sets how the clip maps out-of-range times.
// Clips default to LoopClamp.
//
// Parameters:
//   - policy: the loop policy
//
// Returns:
//   - ClipBuilderOption: a function that applies the loop policy option to a clip
func WithLoopPolicy(policy LoopPolicy) ClipBuilderOption {
	return func(c *AnimationClip) {
		c.loopPolicy = policy
	}
}
