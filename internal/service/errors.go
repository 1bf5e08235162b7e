package service

import "errors"

// Rejections returned by the authentication flow
var (
	ErrInvalidFormat      = errors.New("invalid email format")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrDuplicateEmail     = errors.New("email already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnexpected         = errors.New("unexpected failure")
)
