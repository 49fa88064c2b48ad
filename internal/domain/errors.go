package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrAlreadyClaimed    = errors.New("schedule already taken or not pending")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyClosed     = errors.New("schedule already closed")
	ErrNotEnRoute        = errors.New("schedule is not en route")
)
