package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong username or password")

	// ErrNoMatch means no enrolled reference scored above the
	// identification threshold. The session stays anonymous and the
	// password fallback remains open.
	ErrNoMatch = errors.New("no matching face reference")

	// ErrIdentityMismatch means the submitted credentials belong to a
	// different user than the pending face identity.
	ErrIdentityMismatch = errors.New("credentials do not match identified face")

	// ErrDuplicateFace means the enrollment candidate is already enrolled
	// for another account.
	ErrDuplicateFace = errors.New("face already enrolled for another user")

	// ErrBadDimension means an embedding's length differs from the
	// configured dimension.
	ErrBadDimension = errors.New("embedding dimension mismatch")

	// ErrNothingToClose means no open attendance record exists for the
	// close target day.
	ErrNothingToClose = errors.New("no open attendance record to close")

	ErrForbidden = errors.New("operation not allowed for this role")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
)
