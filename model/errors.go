package model

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrEmptyFlag     = errors.New("please enter a flag")
	ErrMalformedFlag = errors.New("invalid flag format, use flag{...}")
	ErrStopped       = errors.New("live updates stopped")
)
