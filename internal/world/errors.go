package world

import "errors"

// Relational operation errors. All are recoverable: the world is left exactly
// as it was before the failing call.
var (
	ErrStaleHandle       = errors.New("stale or invalid handle")
	ErrDegenerateSegment = errors.New("segment endpoints coincide")
	ErrDanglingRoad      = errors.New("road does not exist")
)
