package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("Invalid username or password")
	ErrInvalidToken       = errors.New("Invalid or expired token")
	ErrUnknownGoogleUser  = errors.New("Google account does not match any employee")
)
