package services

import "errors"

// Configuration errors. They are fatal to the single request, surfaced to
// the caller as a client error, and never retried.
var (
	ErrNotConnected    = errors.New("user not connected to Trello")
	ErrMissingTemplate = errors.New("missing template name")
	ErrMissingParams   = errors.New("missing parameters")
)
