package upstream

import "errors"

var (
	// ErrNotFound is returned when an upstream affirmatively reports that
	// the requested entity does not exist. It is a distinct outcome from
	// an upstream failure and must not trigger degradation.
	ErrNotFound = errors.New("upstream: not found")
)
