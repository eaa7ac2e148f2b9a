package edb

import "errors"

// EDB format errors.
var (
	ErrCorruptHeader        = errors.New("corrupt EDB header")
	ErrUnsupportedPlatform  = errors.New("unsupported EDB platform")
	ErrInvalidReference     = errors.New("invalid EDB reference")
	ErrInvalidZoneReference = errors.New("zone reference does not resolve to a map zone entity")
)
