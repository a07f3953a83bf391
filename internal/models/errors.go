package models

import "errors"

var (
	// ErrNotFound is returned when a job, candidate, prompt or application does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidToken is returned for unknown, expired or consumed interview tokens.
	ErrInvalidToken = errors.New("invalid interview token")
	// ErrInvalidInput marks caller mistakes such as bad pagination or incomplete prompts.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstream marks unusable output from the text-completion provider.
	ErrUpstream = errors.New("upstream returned unusable output")
)
