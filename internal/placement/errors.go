package placement

import "errors"

var (
	ErrNotFound     = errors.New("placement: not found")
	ErrConflict     = errors.New("placement: already exists")
	ErrInvalidInput = errors.New("placement: invalid input")
)
