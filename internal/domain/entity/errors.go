package entity

import "errors"

var (
	// ErrKeyNotFound is returned when a bearer token has no stored key.
	ErrKeyNotFound = errors.New("access key not found")

	// ErrKeyCollision is returned when a generated key already exists.
	ErrKeyCollision = errors.New("access key collision")

	// ErrSubSportNotFound is returned when a (sport_id, type_id) pair has
	// no catalog entry.
	ErrSubSportNotFound = errors.New("sub-sport not found")
)
