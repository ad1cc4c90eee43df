package browse

import "errors"

var (
	// ErrIndexOutOfRange is returned when a child index selects past the current listing.
	ErrIndexOutOfRange = errors.New("navigation index out of range")
	// ErrVolumeNotReady is returned when entering a volume that is not ready.
	ErrVolumeNotReady = errors.New("volume not ready")
	// ErrInvalidSelector is returned for negative selectors other than reset and parent.
	ErrInvalidSelector = errors.New("invalid navigation selector")
)
