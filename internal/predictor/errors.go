package predictor

import "errors"

// Sentinel error kinds. Callers test with errors.Is.
var (
	// ErrModelLoad means the artifact is missing, corrupted or incompatible.
	// It is fatal at startup.
	ErrModelLoad = errors.New("model load failed")

	// ErrModelInvocation means a batch violated the feature schema. It is
	// fatal to the current prediction only.
	ErrModelInvocation = errors.New("model invocation failed")
)
