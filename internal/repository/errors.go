package repository

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientStock is returned when a purchase asks for more units than are on hand
	ErrInsufficientStock = errors.New("insufficient stock")
)
