package model

import (
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-anim/common"
)

// AnimationClip is an ordered, time-sorted timeline of keyframes plus playback metadata.
// Clips are immutable after construction and safe to share between any number of controllers.
type AnimationClip struct {
	name       string
	loopPolicy LoopPolicy
	kind       PayloadKind
	keyFrames  []KeyFrame
}

// NewAnimationClip validates a keyframe sequence and builds a clip from it.
// The slice is copied. Equal adjacent timestamps are tolerated (the sampler treats the
// zero-length interval as its earlier keyframe) but decreasing timestamps are rejected.
//
// Parameters:
//   - keyFrames: the keyframes in ascending timestamp order (at least one)
//   - options: variadic list of ClipBuilderOption functions to configure the clip
//
// Returns:
//   - *AnimationClip: the constructed clip
//   - error: ErrEmptyClip, ErrMixedPayload or ErrUnorderedKeyFrames if the sequence is malformed
func NewAnimationClip(keyFrames []KeyFrame, options ...ClipBuilderOption) (*AnimationClip, error) {
	c := &AnimationClip{}
	for _, opt := range options {
		opt(c)
	}

	if len(keyFrames) == 0 {
		return nil, fmt.Errorf("clip %q: %w", c.name, ErrEmptyClip)
	}

	c.kind = keyFrames[0].kind
	for i := range keyFrames {
		kf := &keyFrames[i]
		if !(kf.timeStamp >= 0) {
			return nil, fmt.Errorf("clip %q keyframe %d: %w", c.name, i, ErrNegativeTimeStamp)
		}
		if kf.kind != c.kind {
			return nil, fmt.Errorf("clip %q keyframe %d is %s, clip is %s: %w", c.name, i, kf.kind, c.kind, ErrMixedPayload)
		}
		if i > 0 && kf.timeStamp < keyFrames[i-1].timeStamp {
			return nil, fmt.Errorf("clip %q keyframe %d at %v precedes keyframe %d at %v: %w",
				c.name, i, kf.timeStamp, i-1, keyFrames[i-1].timeStamp, ErrUnorderedKeyFrames)
		}
	}

	c.keyFrames = make([]KeyFrame, len(keyFrames))
	copy(c.keyFrames, keyFrames)
	return c, nil
}

// Name returns the clip identifier.
func (c *AnimationClip) Name() string {
	return c.name
}

// Duration returns the clip length in seconds, the timestamp of the last keyframe.
func (c *AnimationClip) Duration() float32 {
	return c.keyFrames[len(c.keyFrames)-1].timeStamp
}

// LoopPolicy returns how out-of-range times map back onto the clip.
func (c *AnimationClip) LoopPolicy() LoopPolicy {
	return c.loopPolicy
}

// Kind returns the payload kind shared by every keyframe of the clip.
func (c *AnimationClip) Kind() PayloadKind {
	return c.kind
}

// KeyFrameCount returns the number of keyframes in the clip.
func (c *AnimationClip) KeyFrameCount() int {
	return len(c.keyFrames)
}

// KeyFrameAt returns the keyframe at the given index. It panics if index is out of range,
// like slice indexing.
//
// Parameters:
//   - index: the keyframe index in [0, KeyFrameCount())
//
// Returns:
//   - KeyFrame: the keyframe
func (c *AnimationClip) KeyFrameAt(index int) KeyFrame {
	return c.keyFrames[index]
}

// IsStatic reports whether the clip has a single keyframe and therefore always yields the same pose.
func (c *AnimationClip) IsStatic() bool {
	return len(c.keyFrames) == 1
}

// NormalizeTime maps a raw query time into [0, Duration()] according to the loop policy.
// Looping and ping-pong clips of zero duration behave as clamped clips.
//
// Parameters:
//   - t: the raw query time in seconds
//
// Returns:
//   - float32: the normalized time
func (c *AnimationClip) NormalizeTime(t float32) float32 {
	d := c.Duration()
	if d > 0 {
		switch c.loopPolicy {
		case LoopRepeat:
			return common.WrapPositive(t, d)
		case LoopPingPong:
			m := common.WrapPositive(t, 2*d)
			if m > d {
				m = 2*d - m
			}
			return m
		}
	}
	return common.Clamp(t, 0, d)
}

// FindBracket locates the adjacent keyframe pair (i, j) surrounding a time such that
// keyframe[i].TimeStamp() <= time <= keyframe[j].TimeStamp().
// The bracket is degenerate (i == j) when time is at or before the first keyframe (0, 0),
// after the last keyframe (last, last), or exactly on a keyframe timestamp. When several
// keyframes share the queried timestamp the earliest of them is returned.
// A NaN time yields (0, 0).
//
// Parameters:
//   - time: the query time, normally already passed through NormalizeTime
//
// Returns:
//   - int: the index of the earlier keyframe
//   - int: the index of the later keyframe
func (c *AnimationClip) FindBracket(time float32) (int, int) {
	n := len(c.keyFrames)
	if !(time > c.keyFrames[0].timeStamp) {
		return 0, 0
	}
	last := n - 1
	if time > c.keyFrames[last].timeStamp {
		return last, last
	}

	// First keyframe at or after time; always in (0, last] given the guards above.
	j := sort.Search(n, func(i int) bool {
		return c.keyFrames[i].timeStamp >= time
	})
	if c.keyFrames[j].timeStamp == time {
		return j, j
	}
	return j - 1, j
}
