package sed

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrModelNotFound indicates the model file does not exist.
	ErrModelNotFound = errors.New("sed: model file not found")

	// ErrInvalidModel indicates the model file exists but is malformed.
	ErrInvalidModel = errors.New("sed: invalid model format")

	// ErrNoClipwiseOutput indicates the forward pass produced no
	// clip-level scores, which every evaluation path requires.
	ErrNoClipwiseOutput = errors.New("sed: forward pass produced no clipwise output")

	// ErrClassCountMismatch indicates model outputs and the configured
	// label vocabulary disagree on the number of classes.
	ErrClassCountMismatch = errors.New("sed: model class count does not match label vocabulary")
)
