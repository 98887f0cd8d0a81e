package store

import (
	"context"
	"time"

	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/models"
)

// UserRepository is the data-access contract for personnel accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
	FindUserByID(ctx context.Context, userID int64) (models.User, error)
	DeleteUser(ctx context.Context, userID int64) error
}

// EmbeddingRepository is the durable mapping from user identifier to
// reference embeddings.
type EmbeddingRepository interface {
	// SaveReference appends a reference embedding for the user (a user may
	// hold several capture angles).
	SaveReference(ctx context.Context, userID int64, embedding models.Embedding) (models.FaceReference, error)

	// ReplaceReferences atomically drops the user's existing references and
	// stores the given one as the only reference.
	ReplaceReferences(ctx context.Context, userID int64, embedding models.Embedding) error

	// DeleteReferences removes all references for the user; deleting a user
	// with no references is not an error.
	DeleteReferences(ctx context.Context, userID int64) error

	// CountReferences reports how many references the user holds.
	CountReferences(ctx context.Context, userID int64) (int64, error)

	// AllReferences returns a snapshot of every enrolled reference, ordered
	// by user ID then reference ID. Mutations after the call are not
	// reflected in the returned slice.
	AllReferences(ctx context.Context) ([]models.FaceReference, error)
}

// AttendanceRepository persists the attendance ledger. The check-then-act
// sequences in OpenRecord and CloseRecord run inside a transaction with a
// row lock so concurrent calls for the same user cannot interleave.
type AttendanceRepository interface {
	// OpenRecord inserts a new open record for (userID, day) unless one is
	// already open, in which case the existing record is returned and
	// created is false.
	OpenRecord(ctx context.Context, userID int64, checkIn time.Time, day string, area string) (record models.AttendanceRecord, created bool, err error)

	// CloseRecord stamps checkOut on the most recent open record for
	// (userID, day). When no open record exists, closed is false and err is
	// nil ("nothing to close" is not a storage failure).
	CloseRecord(ctx context.Context, userID int64, checkOut time.Time, day string) (record models.AttendanceRecord, closed bool, err error)

	// ListByUser returns the user's records, newest first.
	ListByUser(ctx context.Context, userID int64) ([]models.AttendanceRecord, error)

	// CloseStale force-closes every open record whose check-in is older
	// than cutoff, stamping closeAt and marking the rows auto-closed.
	// Returns the number of records closed.
	CloseStale(ctx context.Context, cutoff time.Time, closeAt time.Time) (int64, error)
}
