package animator

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// ControllerState identifies the playback state of a Controller.
type ControllerState int

const (
	// StateStopped means no clip advances; Advance is a no-op.
	StateStopped ControllerState = iota

	// StatePlaying means a single active clip advances each tick.
	StatePlaying

	// StateCrossFading means an outgoing and an incoming clip both advance and their poses are
	// blended by a weight that ramps from 0 to 1 over the fade duration.
	StateCrossFading
)

func (s ControllerState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateCrossFading:
		return "crossfading"
	default:
		return "stopped"
	}
}

// controller is the implementation of the Controller interface.
// Cursor and blend bookkeeping mirror the per-instance playback state the skeletal renderer keeps,
// moved to the CPU and evaluated through SampleInto.
type controller struct {
	skeleton *model.Skeleton
	state    ControllerState

	clip     *model.AnimationClip
	incoming *model.AnimationClip

	time, incomingTime        float32
	speed                     float32
	fadeElapsed, fadeDuration float32

	pose, outgoingPose, inPose model.Pose
	sampled                    bool

	// frozen holds outgoingPose still: a crossfade retargeted mid-blend fades out from the
	// blended pose it had reached instead of from a clip.
	frozen bool
}

// Controller defines the public interface for per-entity animation playback.
//
// A Controller owns a time cursor over an active AnimationClip, advances it once per tick by an
// elapsed-time delta scaled by the playback speed, and samples the clip into a reusable Pose.
// A crossfade keeps a second cursor on an incoming clip and blends both sampled poses until the
// blend weight reaches 1, at which point the incoming clip becomes active.
//
// A Controller is not safe for concurrent use. Clips and the skeleton it references are read-only
// and may be shared by any number of controllers.
type Controller interface {
	// Play makes clip the active clip, resets the cursor to 0 and enters StatePlaying.
	// Any crossfade in progress is abandoned.
	//
	// Parameters:
	//   - clip: the clip to play
	//
	// Returns:
	//   - error: ErrNilClip if clip is nil
	Play(clip *model.AnimationClip) error

	// CrossfadeTo starts blending from the active clip to clip over duration seconds.
	// A duration <= 0 switches to clip instantly. From StateStopped this behaves like Play.
	// When called during a crossfade, the clip that was fading in becomes the outgoing clip.
	//
	// Parameters:
	//   - clip: the incoming clip
	//   - duration: the fade duration in seconds
	//
	// Returns:
	//   - error: ErrNilClip if clip is nil, ErrPayloadMismatch if clip's payload kind differs from the active clip
	CrossfadeTo(clip *model.AnimationClip, duration float32) error

	// Advance moves the cursors forward by dt scaled by the playback speed and returns the
	// resulting pose. The fade timer advances by the unscaled dt. In StateStopped nothing changes
	// and the returned pose is nil.
	//
	// The returned Pose is owned by the controller and overwritten by the next call.
	//
	// Parameters:
	//   - dt: elapsed time since the previous tick in seconds
	//
	// Returns:
	//   - *model.Pose: the current pose, or nil when stopped
	//   - error: ErrNegativeDelta if dt is negative or infinite, leaving the controller unchanged
	Advance(dt float32) (*model.Pose, error)

	// Stop enters StateStopped from any state, abandoning any crossfade.
	// The active clip, cursor and last pose are kept.
	Stop()

	// Pose returns the most recently sampled pose, or nil if nothing has been sampled yet.
	//
	// Returns:
	//   - *model.Pose: the current pose
	Pose() *model.Pose

	// State returns the current playback state.
	//
	// Returns:
	//   - ControllerState: the state
	State() ControllerState

	// Clip returns the active clip (the outgoing clip during a crossfade).
	//
	// Returns:
	//   - *model.AnimationClip: the active clip or nil
	Clip() *model.AnimationClip

	// IncomingClip returns the clip being faded in, or nil when not crossfading.
	//
	// Returns:
	//   - *model.AnimationClip: the incoming clip or nil
	IncomingClip() *model.AnimationClip

	// Skeleton returns the skeleton used for joint fallback, or nil.
	//
	// Returns:
	//   - *model.Skeleton: the skeleton
	Skeleton() *model.Skeleton

	// Time returns the cursor of the active clip in seconds.
	//
	// Returns:
	//   - float32: the cursor
	Time() float32

	// SetTime seeks the active clip's cursor and resamples the pose. No-op without a clip.
	//
	// Parameters:
	//   - time: the new cursor in seconds, wrapped or clamped by the clip's loop policy
	SetTime(time float32)

	// Speed returns the playback speed multiplier.
	//
	// Returns:
	//   - float32: the multiplier
	Speed() float32

	// SetSpeed sets the playback speed multiplier (1 = normal, 0.5 = half speed, 0 = paused).
	//
	// Parameters:
	//   - speed: the multiplier
	//
	// Returns:
	//   - error: ErrNegativeSpeed if speed is negative
	SetSpeed(speed float32) error

	// IsCrossFading reports whether a crossfade is in progress.
	//
	// Returns:
	//   - bool: true while in StateCrossFading
	IsCrossFading() bool

	// BlendWeight returns the current crossfade weight from 0 (outgoing) to 1 (incoming),
	// or 0 when not crossfading.
	//
	// Returns:
	//   - float32: the blend weight
	BlendWeight() float32

	// CancelCrossfade stops an in-progress crossfade and keeps playing the outgoing clip.
	CancelCrossfade()

	// Finished reports whether a clamped clip has played to its end.
	// Looping and ping-pong clips never finish.
	//
	// Returns:
	//   - bool: true if the active clip is clamped and the cursor has reached its duration
	Finished() bool
}

var _ Controller = &controller{}

// NewController creates a new Controller with the provided options applied.
// The controller starts in StateStopped unless WithClip supplied an initial clip.
//
// Parameters:
//   - options: variadic list of ControllerBuilderOption functions to configure the Controller
//
// Returns:
//   - Controller: the constructed controller
func NewController(options ...ControllerBuilderOption) Controller {
	c := &controller{
		speed: 1,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.clip != nil {
		c.Play(c.clip)
	}
	return c
}

func (c *controller) Play(clip *model.AnimationClip) error {
	if clip == nil {
		return ErrNilClip
	}
	c.clip = clip
	c.time = 0
	c.clearFade()
	c.state = StatePlaying
	c.refresh()
	return nil
}

func (c *controller) CrossfadeTo(clip *model.AnimationClip, duration float32) error {
	if clip == nil {
		return ErrNilClip
	}
	if c.state == StateStopped || c.clip == nil {
		return c.Play(clip)
	}
	if clip.Kind() != c.clip.Kind() {
		return fmt.Errorf("crossfade %q (%s) to %q (%s): %w", c.clip.Name(), c.clip.Kind(), clip.Name(), clip.Kind(), ErrPayloadMismatch)
	}
	if !(duration > 0) {
		return c.Play(clip)
	}

	if c.state == StateCrossFading {
		c.outgoingPose.Reset(c.pose.Kind)
		c.outgoingPose.Scalar = c.pose.Scalar
		for id, t := range c.pose.Joints {
			c.outgoingPose.Joints[id] = t
		}
		c.frozen = true
		c.clip = c.incoming
		c.time = c.incomingTime
	}
	c.incoming = clip
	c.incomingTime = 0
	c.fadeElapsed = 0
	c.fadeDuration = duration
	c.state = StateCrossFading
	c.refresh()
	return nil
}

func (c *controller) Advance(dt float32) (*model.Pose, error) {
	if !validDelta(dt) {
		return nil, fmt.Errorf("advance by %v: %w", dt, ErrNegativeDelta)
	}

	switch c.state {
	case StateStopped:
		return nil, nil
	case StatePlaying:
		c.time = advanceCursor(c.clip, c.time, dt*c.speed)
	case StateCrossFading:
		c.time = advanceCursor(c.clip, c.time, dt*c.speed)
		c.incomingTime = advanceCursor(c.incoming, c.incomingTime, dt*c.speed)
		c.fadeElapsed += dt
		if c.fadeElapsed >= c.fadeDuration {
			c.clip = c.incoming
			c.time = c.incomingTime
			c.clearFade()
			c.state = StatePlaying
		}
	}

	c.refresh()
	return &c.pose, nil
}

func (c *controller) Stop() {
	c.clearFade()
	c.state = StateStopped
}

func (c *controller) Pose() *model.Pose {
	if !c.sampled {
		return nil
	}
	return &c.pose
}

func (c *controller) State() ControllerState {
	return c.state
}

func (c *controller) Clip() *model.AnimationClip {
	return c.clip
}

func (c *controller) IncomingClip() *model.AnimationClip {
	return c.incoming
}

func (c *controller) Skeleton() *model.Skeleton {
	return c.skeleton
}

func (c *controller) Time() float32 {
	return c.time
}

func (c *controller) SetTime(time float32) {
	if c.clip == nil {
		return
	}
	c.time = advanceCursor(c.clip, time, 0)
	c.refresh()
}

func (c *controller) Speed() float32 {
	return c.speed
}

func (c *controller) SetSpeed(speed float32) error {
	if !validDelta(speed) {
		return fmt.Errorf("set speed %v: %w", speed, ErrNegativeSpeed)
	}
	c.speed = speed
	return nil
}

func (c *controller) IsCrossFading() bool {
	return c.state == StateCrossFading
}

func (c *controller) BlendWeight() float32 {
	if c.state != StateCrossFading {
		return 0
	}
	return common.Clamp(c.fadeElapsed/c.fadeDuration, 0, 1)
}

func (c *controller) CancelCrossfade() {
	if c.state != StateCrossFading {
		return
	}
	c.clearFade()
	c.state = StatePlaying
	c.refresh()
}

func (c *controller) Finished() bool {
	if c.clip == nil || c.state == StateCrossFading {
		return false
	}
	return c.clip.LoopPolicy() == model.LoopClamp && c.time >= c.clip.Duration()
}

// refresh resamples the pose for the current cursors and state.
func (c *controller) refresh() {
	if c.clip == nil {
		return
	}
	c.sampled = true

	if c.state != StateCrossFading {
		SampleInto(&c.pose, c.clip, c.skeleton, c.time)
		return
	}
	if !c.frozen {
		SampleInto(&c.outgoingPose, c.clip, c.skeleton, c.time)
	}
	SampleInto(&c.inPose, c.incoming, c.skeleton, c.incomingTime)
	BlendPoses(&c.pose, &c.outgoingPose, &c.inPose, c.BlendWeight())
}

func (c *controller) clearFade() {
	c.incoming = nil
	c.incomingTime = 0
	c.fadeElapsed = 0
	c.fadeDuration = 0
	c.frozen = false
}

// validDelta reports whether v is a finite, non-negative time step or speed.
func validDelta(v float32) bool {
	return v >= 0 && !math.IsInf(float64(v), 1)
}

// advanceCursor moves a cursor by delta and keeps it inside the clip's period: looping cursors
// wrap into [0, duration), ping-pong cursors into [0, 2*duration) and clamped cursors are
// clamped to [0, duration].
func advanceCursor(clip *model.AnimationClip, cursor, delta float32) float32 {
	t := cursor + delta
	d := clip.Duration()
	if d > 0 {
		switch clip.LoopPolicy() {
		case model.LoopRepeat:
			return common.WrapPositive(t, d)
		case model.LoopPingPong:
			return common.WrapPositive(t, 2*d)
		}
	}
	return common.Clamp(t, 0, d)
}
