package loader

import "errors"

var (
	// ErrUnsupportedFormat is returned when no backend handles a file extension.
	ErrUnsupportedFormat = errors.New("unsupported asset format")

	// ErrInvalidDocument is returned when an asset document parses but describes an
	// impossible model, such as a keyframe carrying both a value and joints.
	ErrInvalidDocument = errors.New("invalid asset document")

	// ErrNotLoaded is returned by Reload when a path was never loaded.
	ErrNotLoaded = errors.New("asset was not loaded from this path")
)
