package gateway

import "errors"

// Gateway errors
var (
	ErrBoardNotFound  = errors.New("board not found")
	ErrColumnNotFound = errors.New("column not found")
	ErrCardNotFound   = errors.New("card not found")
	ErrEmptyTitle     = errors.New("title cannot be empty")
	ErrEmptyName      = errors.New("name cannot be empty")
)
