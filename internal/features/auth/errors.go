package auth

import "errors"

var (
	ErrMissingFields      = errors.New("name and email are required")
	ErrInvalidCredentials = errors.New("incorrect email or password")
)
