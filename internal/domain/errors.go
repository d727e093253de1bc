package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrNoSelection         = errors.New("no selection")
	ErrNoInstruction       = errors.New("no instruction")
	ErrEditInFlight        = errors.New("edit already in flight")
	ErrBatchTooSmall       = errors.New("not enough segments")
	ErrBatchTooLarge       = errors.New("too many segments")
	ErrRetryInFlight       = errors.New("retry while loading")
	ErrNotAdoptable        = errors.New("result not adoptable")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrSubscriptionNeeded  = errors.New("subscription required")
	ErrRateLimited         = errors.New("rate limited")
	ErrProviderFailure     = errors.New("provider failure")
	ErrImageDecode         = errors.New("image decode failed")
	ErrSessionClosed       = errors.New("session closed")
)
