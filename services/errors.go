package services

import "errors"

// Ledger error taxonomy. Handlers map these to HTTP statuses; internal recovery
// paths (estimator failure, repeated settlement) never surface them to callers.
var (
	ErrNotAuthenticated  = errors.New("no identity set for caller")
	ErrNotFound          = errors.New("submission or order not found")
	ErrAlreadySold       = errors.New("submission already sold")
	ErrAlreadySettled    = errors.New("order already settled")
	ErrSelfClaim         = errors.New("cannot claim your own submission")
	ErrInvalidTransition = errors.New("invalid delivery status transition")
	ErrOtpMismatch       = errors.New("otp does not match")
	ErrOtpLocked         = errors.New("otp attempt limit reached")
)
