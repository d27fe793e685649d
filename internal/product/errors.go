package product

import "errors"

var (
	ErrNotFound      = errors.New("product not found")
	ErrDuplicateName = errors.New("product name already exists")
)
