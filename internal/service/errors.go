package service

import "errors"

// Named failure conditions. Validation faults are distinguishable with
// errors.Is so the HTTP layer can map each to a response code;
// ErrUserNotFound is a consistency fault (an authenticated caller's row
// should always exist) and is surfaced generically.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrAlreadyComplete = errors.New("task is already completed")
	ErrPastDue         = errors.New("task is past due and cannot be completed")
	ErrTaskNotFound    = errors.New("task not found")
	ErrRewardNotFound  = errors.New("reward not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrUnauthorized    = errors.New("not signed in")
	ErrUsernameTaken   = errors.New("username is already taken")
	ErrBadCredentials  = errors.New("invalid username or password")
)
