package board

import "errors"

// Invariant errors. These indicate a planner or overlay bug, not bad
// user input; callers log them loudly instead of normalizing.
var (
	ErrDuplicatePosition = errors.New("duplicate position in collection")
	ErrPositionGap       = errors.New("position gap in collection")
	ErrUnknownCard       = errors.New("unknown card")
	ErrUnknownColumn     = errors.New("unknown column")
)
