package store

import "errors"

// Sentinel errors returned by Store methods; handlers map these to HTTP
// status codes (see pkg/controlplane/errors.go).
var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrPipelineUnknown = errors.New("referenced pipeline does not exist")
)
