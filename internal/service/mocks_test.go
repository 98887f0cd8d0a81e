package service

import (
	"context"
	"errors"
	"time"

	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/models"
)

var errStorage = errors.New("storage error")

// ─────────────────────────────────────────────
// Mock: store.UserRepository
// ─────────────────────────────────────────────

type mockUserRepository struct {
	createUserFn         func(ctx context.Context, user models.User) (models.User, error)
	findUserByUsernameFn func(ctx context.Context, username string) (models.User, error)
	findUserByIDFn       func(ctx context.Context, userID int64) (models.User, error)
	deleteUserFn         func(ctx context.Context, userID int64) error
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(ctx, user)
	}
	return user, nil
}

func (m *mockUserRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	if m.findUserByUsernameFn != nil {
		return m.findUserByUsernameFn(ctx, username)
	}
	return models.User{}, nil
}

func (m *mockUserRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	if m.findUserByIDFn != nil {
		return m.findUserByIDFn(ctx, userID)
	}
	return models.User{}, nil
}

func (m *mockUserRepository) DeleteUser(ctx context.Context, userID int64) error {
	if m.deleteUserFn != nil {
		return m.deleteUserFn(ctx, userID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.EmbeddingRepository
// ─────────────────────────────────────────────

type mockEmbeddingRepository struct {
	saveReferenceFn     func(ctx context.Context, userID int64, embedding models.Embedding) (models.FaceReference, error)
	replaceReferencesFn func(ctx context.Context, userID int64, embedding models.Embedding) error
	deleteReferencesFn  func(ctx context.Context, userID int64) error
	countReferencesFn   func(ctx context.Context, userID int64) (int64, error)
	allReferencesFn     func(ctx context.Context) ([]models.FaceReference, error)
}

func (m *mockEmbeddingRepository) SaveReference(ctx context.Context, userID int64, embedding models.Embedding) (models.FaceReference, error) {
	if m.saveReferenceFn != nil {
		return m.saveReferenceFn(ctx, userID, embedding)
	}
	return models.FaceReference{UserID: userID, Embedding: embedding}, nil
}

func (m *mockEmbeddingRepository) ReplaceReferences(ctx context.Context, userID int64, embedding models.Embedding) error {
	if m.replaceReferencesFn != nil {
		return m.replaceReferencesFn(ctx, userID, embedding)
	}
	return nil
}

func (m *mockEmbeddingRepository) DeleteReferences(ctx context.Context, userID int64) error {
	if m.deleteReferencesFn != nil {
		return m.deleteReferencesFn(ctx, userID)
	}
	return nil
}

func (m *mockEmbeddingRepository) CountReferences(ctx context.Context, userID int64) (int64, error) {
	if m.countReferencesFn != nil {
		return m.countReferencesFn(ctx, userID)
	}
	return 0, nil
}

func (m *mockEmbeddingRepository) AllReferences(ctx context.Context) ([]models.FaceReference, error) {
	if m.allReferencesFn != nil {
		return m.allReferencesFn(ctx)
	}
	return nil, nil
}

// ─────────────────────────────────────────────
// Mock: store.AttendanceRepository
// ─────────────────────────────────────────────

type mockAttendanceRepository struct {
	openRecordFn  func(ctx context.Context, userID int64, checkIn time.Time, day string, area string) (models.AttendanceRecord, bool, error)
	closeRecordFn func(ctx context.Context, userID int64, checkOut time.Time, day string) (models.AttendanceRecord, bool, error)
	listByUserFn  func(ctx context.Context, userID int64) ([]models.AttendanceRecord, error)
	closeStaleFn  func(ctx context.Context, cutoff time.Time, closeAt time.Time) (int64, error)
}

func (m *mockAttendanceRepository) OpenRecord(ctx context.Context, userID int64, checkIn time.Time, day string, area string) (models.AttendanceRecord, bool, error) {
	if m.openRecordFn != nil {
		return m.openRecordFn(ctx, userID, checkIn, day, area)
	}
	return models.AttendanceRecord{UserID: userID, Day: day, CheckInAt: checkIn, Area: area}, true, nil
}

func (m *mockAttendanceRepository) CloseRecord(ctx context.Context, userID int64, checkOut time.Time, day string) (models.AttendanceRecord, bool, error) {
	if m.closeRecordFn != nil {
		return m.closeRecordFn(ctx, userID, checkOut, day)
	}
	return models.AttendanceRecord{UserID: userID, Day: day, CheckOutAt: &checkOut}, true, nil
}

func (m *mockAttendanceRepository) ListByUser(ctx context.Context, userID int64) ([]models.AttendanceRecord, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockAttendanceRepository) CloseStale(ctx context.Context, cutoff time.Time, closeAt time.Time) (int64, error) {
	if m.closeStaleFn != nil {
		return m.closeStaleFn(ctx, cutoff, closeAt)
	}
	return 0, nil
}

// ─────────────────────────────────────────────
// Mock: Matcher
// ─────────────────────────────────────────────

type mockMatcher struct {
	identifyFn       func(ctx context.Context, probe models.Embedding) (models.MatchResult, error)
	checkDuplicateFn func(ctx context.Context, candidate models.Embedding) (models.MatchResult, bool, error)
	reloadFn         func(ctx context.Context) error
}

func (m *mockMatcher) Identify(ctx context.Context, probe models.Embedding) (models.MatchResult, error) {
	if m.identifyFn != nil {
		return m.identifyFn(ctx, probe)
	}
	return models.MatchResult{}, ErrNoMatch
}

func (m *mockMatcher) CheckDuplicate(ctx context.Context, candidate models.Embedding) (models.MatchResult, bool, error) {
	if m.checkDuplicateFn != nil {
		return m.checkDuplicateFn(ctx, candidate)
	}
	return models.MatchResult{}, false, nil
}

func (m *mockMatcher) Reload(ctx context.Context) error {
	if m.reloadFn != nil {
		return m.reloadFn(ctx)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: AttendanceLedger
// ─────────────────────────────────────────────

type mockAttendanceLedger struct {
	recordEntryFn       func(ctx context.Context, userID int64, ts time.Time, area string) (models.AttendanceRecord, error)
	recordExitFn        func(ctx context.Context, userID int64, ts time.Time) (models.AttendanceRecord, error)
	historyFn           func(ctx context.Context, userID int64) ([]models.AttendanceRecord, error)
	closeStaleRecordsFn func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockAttendanceLedger) RecordEntry(ctx context.Context, userID int64, ts time.Time, area string) (models.AttendanceRecord, error) {
	if m.recordEntryFn != nil {
		return m.recordEntryFn(ctx, userID, ts, area)
	}
	return models.AttendanceRecord{UserID: userID}, nil
}

func (m *mockAttendanceLedger) RecordExit(ctx context.Context, userID int64, ts time.Time) (models.AttendanceRecord, error) {
	if m.recordExitFn != nil {
		return m.recordExitFn(ctx, userID, ts)
	}
	return models.AttendanceRecord{UserID: userID}, nil
}

func (m *mockAttendanceLedger) History(ctx context.Context, userID int64) ([]models.AttendanceRecord, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockAttendanceLedger) CloseStaleRecords(ctx context.Context, now time.Time) (int64, error) {
	if m.closeStaleRecordsFn != nil {
		return m.closeStaleRecordsFn(ctx, now)
	}
	return 0, nil
}
