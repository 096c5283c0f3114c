package reorder

import "errors"

// Planning errors
var (
	ErrCardNotAtSource  = errors.New("card is not at the given source index")
	ErrSourceOutOfRange = errors.New("source index is out of range")
)
