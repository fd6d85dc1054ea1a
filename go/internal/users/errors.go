package users

import "errors"

var (
	// ErrUserNotFound is returned when a username has no ledger entry
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists is returned when creating a username that is taken
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInsufficientBalance is returned when a debit exceeds the balance
	ErrInsufficientBalance = errors.New("not enough points")
)
