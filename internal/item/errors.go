package item

import "errors"

var (
	ErrNotFound     = errors.New("item not found")
	ErrNameRequired = errors.New("name required")
)
