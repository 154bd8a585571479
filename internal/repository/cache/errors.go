package cache

import "errors"

var (
	ErrNotFound  = errors.New("not found in cache")
	ErrWrongType = errors.New("cached value has unexpected type")
)
