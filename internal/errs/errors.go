package errs

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInsufficientData marks inputs below a computator's minimum.
	// Callers recover it locally as an empty or partial result.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrCacheCorrupt marks an unreadable cache blob. The cache manager
	// recovers it as a miss; it never reaches an API caller.
	ErrCacheCorrupt = errors.New("cache entry corrupt")
	// ErrGeneratorUnavailable marks a transport-level failure talking to
	// the text generator. Not retried here.
	ErrGeneratorUnavailable = errors.New("generator unavailable")
	// ErrExplanationValidation marks generated text citing numbers outside
	// the allow-list. Retried exactly once.
	ErrExplanationValidation = errors.New("explanation failed validation")
	// ErrExplanationUnavailable is surfaced after the validation retry also
	// fails. Insights remain available to the caller.
	ErrExplanationUnavailable = errors.New("explanation unavailable")
)
