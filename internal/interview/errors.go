package interview

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	// ErrStateConflict is returned for operations on a session that no
	// longer accepts them, such as answering a completed interview.
	ErrStateConflict = errors.New("session state conflict")
	ErrInvalidInput  = errors.New("invalid input")
)
