package service

import "errors"

var ErrNotFound = errors.New("not found")

var (
	ErrDecode     = errors.New("decode")
	ErrValidation = errors.New("validation")
)

var (
	ErrUnknownKind        = errors.New("unknown booking kind")
	ErrHandoffUnsupported = errors.New("this flow does not accept a handoff")
)
