package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// Job query translation sentinels.
	ErrUnknownJobField    = errors.New("unknown job field")
	ErrUnknownRelation    = errors.New("unknown job relation")
	ErrUnsupportedOp      = errors.New("unsupported predicate operator")
	ErrQueryRequired      = errors.New("job query is required")
	ErrInvalidPageRequest = errors.New("page and per_page must be positive")
)
