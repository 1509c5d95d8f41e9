package animator

import "errors"

var (
	// ErrNegativeDelta is returned by Advance when the elapsed time is negative, infinite or NaN.
	ErrNegativeDelta = errors.New("negative time delta")

	// ErrNegativeSpeed is returned by SetSpeed when the multiplier is negative, infinite or NaN.
	ErrNegativeSpeed = errors.New("negative playback speed")

	// ErrNilClip is returned when a nil clip is passed to Play or CrossfadeTo.
	ErrNilClip = errors.New("nil animation clip")

	// ErrPayloadMismatch is returned when crossfading between a scalar clip and a joint clip.
	ErrPayloadMismatch = errors.New("clip payload kinds differ")
)
