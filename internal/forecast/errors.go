package forecast

import "errors"

var (
	// ErrIncompleteWindow means a source produced zero samples inside the
	// fusion window. Fatal to the affected city's run only.
	ErrIncompleteWindow = errors.New("source has no samples in fusion window")

	// ErrMissingAnchor means a source had no usable value at a window
	// anchor (noon or evening). Also fatal to the affected city only.
	ErrMissingAnchor = errors.New("source value missing at window anchor")

	// ErrReferenceUnavailable is returned by reference sources when a
	// scrape or fetch failed. Callers degrade to a null reference point
	// rather than aborting.
	ErrReferenceUnavailable = errors.New("reference forecast unavailable")
)
