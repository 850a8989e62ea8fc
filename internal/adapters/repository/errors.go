package repository

import "errors"

// Sentinel kinds for leaderboard errors.
var (
	ErrCustomerID      = errors.New("customer id must be positive")
	ErrDeltaOutOfRange = errors.New("delta outside allowed range")
	ErrBadRange        = errors.New("invalid rank range")
	ErrBadWindow       = errors.New("invalid neighbor window")
)
