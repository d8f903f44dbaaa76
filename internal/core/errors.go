package core

import "errors"

// Sentinel errors that transports inspect with errors.Is to tell client
// mistakes apart from upstream failures.
var (
	// ErrEmptyQuestion rejects blank input before any adapter is called.
	ErrEmptyQuestion = errors.New("question must not be empty")

	// ErrGeneration marks a failed model invocation. The exchange is not
	// written to memory when this is returned.
	ErrGeneration = errors.New("generation failed")

	// ErrRetrieval marks a failed context retrieval. Only surfaced when
	// strict retrieval is configured; the default policy degrades to an
	// empty context instead.
	ErrRetrieval = errors.New("retrieval failed")
)
