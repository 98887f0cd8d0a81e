package service

import (
	"context"
	"time"

	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/models"
)

// Matcher compares probe embeddings against the enrolled reference set.
//
// Implementations keep an in-memory snapshot of the references and must be
// safe for concurrent use; Reload refreshes the snapshot from the store.
type Matcher interface {
	// Identify returns the owner of the best-scoring reference when that
	// score reaches the identification threshold, or ErrNoMatch.
	Identify(ctx context.Context, probe models.Embedding) (models.MatchResult, error)

	// CheckDuplicate reports whether the candidate is already enrolled for
	// some user: found is true when any reference scores above the
	// duplicate threshold, and the result names that reference's owner.
	CheckDuplicate(ctx context.Context, candidate models.Embedding) (result models.MatchResult, found bool, err error)

	// Reload replaces the in-memory snapshot with the store's current
	// reference set.
	Reload(ctx context.Context) error
}

// AuthService manages accounts, password verification and JWT lifecycle.
type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)

	// VerifyCredentials checks the password against the stored bcrypt hash.
	// Returns ErrWrongPassword on mismatch and ErrWrongPassword (not
	// ErrUserNotFound) when the account does not exist, so callers cannot
	// probe for usernames.
	VerifyCredentials(ctx context.Context, username string, password string) (models.User, error)

	CreateToken(ctx context.Context, principal models.Principal) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// EnrollmentService finalizes or rolls back face enrollment for
// provisionally registered accounts.
type EnrollmentService interface {
	// EnrollFace stores the embedding as the user's reference. When the
	// face is already enrolled for another account the provisional account
	// is deleted and ErrDuplicateFace returned.
	EnrollFace(ctx context.Context, userID int64, embedding models.Embedding) (models.FaceReference, error)

	// RejectEnrollment is the explicit rollback path: it removes the
	// provisional account when it holds no references.
	RejectEnrollment(ctx context.Context, userID int64) error

	// ReplaceFace drops the target user's existing references and stores
	// the embedding as the only one, e.g. after a bad initial capture.
	// Only admins may replace other users' references.
	ReplaceFace(ctx context.Context, actor models.Principal, targetUserID int64, embedding models.Embedding) error

	// RevokeFaces removes all enrolled references for the target user.
	// Only admins may revoke other users' references.
	RevokeFaces(ctx context.Context, actor models.Principal, targetUserID int64) error
}

// SessionService drives the two-phase login state machine. Sessions are
// keyed by an opaque ID issued on first contact and expire after the
// configured TTL.
type SessionService interface {
	// SubmitFace runs identification on the probe. On a match the session
	// moves to the face-identified state and the result names the pending
	// user; on no match the session stays anonymous and ErrNoMatch is
	// returned (the password fallback stays open).
	SubmitFace(ctx context.Context, sessionID string, probe models.Embedding) (models.MatchResult, error)

	// SubmitCredentials verifies the password and, when a face identity is
	// pending, requires it to agree with the credential owner
	// (ErrIdentityMismatch otherwise, pending state preserved). Success
	// yields a signed token and records an attendance entry; entry
	// failures are logged but never fail the login.
	SubmitCredentials(ctx context.Context, sessionID string, username string, password string) (models.Token, error)

	// Logout closes the session and records an attendance exit for the
	// authenticated user; exit failures are logged but never fail the
	// logout.
	Logout(ctx context.Context, sessionID string, userID int64) error

	// CurrentPrincipal returns the session's authenticated identity, if any.
	CurrentPrincipal(sessionID string) (models.Principal, bool)
}

// AttendanceLedger keeps idempotent per-user-per-day entry/exit records.
type AttendanceLedger interface {
	// RecordEntry opens a record for the user's current day unless one is
	// already open; repeats are idempotent no-ops returning the existing
	// record.
	RecordEntry(ctx context.Context, userID int64, ts time.Time, area string) (models.AttendanceRecord, error)

	// RecordExit closes the most recent open record for the day of ts.
	// Before 06:00 the previous day's record is the close target. Returns
	// ErrNothingToClose when no record is open.
	RecordExit(ctx context.Context, userID int64, ts time.Time) (models.AttendanceRecord, error)

	// History returns the user's records, newest first.
	History(ctx context.Context, userID int64) ([]models.AttendanceRecord, error)

	// CloseStaleRecords force-closes records open longer than the maximum
	// shift duration, as of now. Returns how many were closed.
	CloseStaleRecords(ctx context.Context, now time.Time) (int64, error)
}
