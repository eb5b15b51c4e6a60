package service

import "errors"

var (
	// ErrEmptyCredentials is returned when the username or password is blank
	ErrEmptyCredentials = errors.New("username and password are required")
	// ErrUsernameTaken is returned when registering a username that already exists
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidCredentials is returned when the username is unknown or the password does not match
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrPasswordTooLong is returned for passwords bcrypt cannot hash
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
	// ErrFileTypeNotAllowed is returned for uploads outside the extension allow-list
	ErrFileTypeNotAllowed = errors.New("file type is not allowed")
	// ErrFileTooLarge is returned for uploads above the size limit
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")
)
