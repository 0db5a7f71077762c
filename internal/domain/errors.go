package domain

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrConfiguration      = errors.New("configuration error")
	ErrVerificationFailed = errors.New("payment verification failed")
)
