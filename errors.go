package main

import "github.com/pkg/errors"

var (
	// ErrIllegalMove is returned when a placement is out of range, occupied,
	// or not in the acting color's move index.
	ErrIllegalMove = errors.New("illegal move")

	// ErrMalformedHistory is returned when replaying a saved game produces an
	// illegal move partway through.
	ErrMalformedHistory = errors.New("malformed game history")
)
