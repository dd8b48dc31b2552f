package ports

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("provider unavailable")
)
