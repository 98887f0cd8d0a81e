package http

import (
	"context"
	"time"

	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/logger"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/service"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/models"
)

// ─────────────────────────────────────────────
// Mock AuthService
// ─────────────────────────────────────────────

// mockAuthService implements service.AuthService for unit tests.
// Each method field can be overridden per test case.
type mockAuthService struct {
	registerUserFn      func(ctx context.Context, user models.User) (models.User, error)
	verifyCredentialsFn func(ctx context.Context, username string, password string) (models.User, error)
	createTokenFn       func(ctx context.Context, principal models.Principal) (models.Token, error)
	parseTokenFn        func(ctx context.Context, tokenString string) (models.Token, error)
}

func (m *mockAuthService) RegisterUser(ctx context.Context, user models.User) (models.User, error) {
	if m.registerUserFn != nil {
		return m.registerUserFn(ctx, user)
	}
	return user, nil
}

func (m *mockAuthService) VerifyCredentials(ctx context.Context, username string, password string) (models.User, error) {
	if m.verifyCredentialsFn != nil {
		return m.verifyCredentialsFn(ctx, username, password)
	}
	return models.User{}, service.ErrWrongPassword
}

func (m *mockAuthService) CreateToken(ctx context.Context, principal models.Principal) (models.Token, error) {
	if m.createTokenFn != nil {
		return m.createTokenFn(ctx, principal)
	}
	return models.Token{SignedString: "signed.jwt.token", UserID: principal.UserID, Role: principal.Role}, nil
}

func (m *mockAuthService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	if m.parseTokenFn != nil {
		return m.parseTokenFn(ctx, tokenString)
	}
	return models.Token{}, service.ErrTokenIsExpiredOrInvalid
}

// ─────────────────────────────────────────────
// Mock SessionService
// ─────────────────────────────────────────────

type mockSessionService struct {
	submitFaceFn        func(ctx context.Context, sessionID string, probe models.Embedding) (models.MatchResult, error)
	submitCredentialsFn func(ctx context.Context, sessionID string, username string, password string) (models.Token, error)
	logoutFn            func(ctx context.Context, sessionID string, userID int64) error
	currentPrincipalFn  func(sessionID string) (models.Principal, bool)
}

func (m *mockSessionService) SubmitFace(ctx context.Context, sessionID string, probe models.Embedding) (models.MatchResult, error) {
	if m.submitFaceFn != nil {
		return m.submitFaceFn(ctx, sessionID, probe)
	}
	return models.MatchResult{}, service.ErrNoMatch
}

func (m *mockSessionService) SubmitCredentials(ctx context.Context, sessionID string, username string, password string) (models.Token, error) {
	if m.submitCredentialsFn != nil {
		return m.submitCredentialsFn(ctx, sessionID, username, password)
	}
	return models.Token{}, service.ErrWrongPassword
}

func (m *mockSessionService) Logout(ctx context.Context, sessionID string, userID int64) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, sessionID, userID)
	}
	return nil
}

func (m *mockSessionService) CurrentPrincipal(sessionID string) (models.Principal, bool) {
	if m.currentPrincipalFn != nil {
		return m.currentPrincipalFn(sessionID)
	}
	return models.Principal{}, false
}

// ─────────────────────────────────────────────
// Mock EnrollmentService
// ─────────────────────────────────────────────

type mockEnrollmentService struct {
	enrollFaceFn       func(ctx context.Context, userID int64, embedding models.Embedding) (models.FaceReference, error)
	rejectEnrollmentFn func(ctx context.Context, userID int64) error
	replaceFaceFn      func(ctx context.Context, actor models.Principal, targetUserID int64, embedding models.Embedding) error
	revokeFacesFn      func(ctx context.Context, actor models.Principal, targetUserID int64) error
}

func (m *mockEnrollmentService) EnrollFace(ctx context.Context, userID int64, embedding models.Embedding) (models.FaceReference, error) {
	if m.enrollFaceFn != nil {
		return m.enrollFaceFn(ctx, userID, embedding)
	}
	return models.FaceReference{UserID: userID, Embedding: embedding}, nil
}

func (m *mockEnrollmentService) RejectEnrollment(ctx context.Context, userID int64) error {
	if m.rejectEnrollmentFn != nil {
		return m.rejectEnrollmentFn(ctx, userID)
	}
	return nil
}

func (m *mockEnrollmentService) ReplaceFace(ctx context.Context, actor models.Principal, targetUserID int64, embedding models.Embedding) error {
	if m.replaceFaceFn != nil {
		return m.replaceFaceFn(ctx, actor, targetUserID, embedding)
	}
	return nil
}

func (m *mockEnrollmentService) RevokeFaces(ctx context.Context, actor models.Principal, targetUserID int64) error {
	if m.revokeFacesFn != nil {
		return m.revokeFacesFn(ctx, actor, targetUserID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock AttendanceLedger
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

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// newTestHandler builds a Handler over the given mocks; nil mocks are
// replaced with permissive defaults.
func newTestHandler(auth *mockAuthService, sessions *mockSessionService, enrollment *mockEnrollmentService, ledger *mockAttendanceLedger) *Handler {
	if auth == nil {
		auth = &mockAuthService{}
	}
	if sessions == nil {
		sessions = &mockSessionService{}
	}
	if enrollment == nil {
		enrollment = &mockEnrollmentService{}
	}
	if ledger == nil {
		ledger = &mockAttendanceLedger{}
	}

	svcs := &service.Services{
		AuthService:       auth,
		SessionService:    sessions,
		EnrollmentService: enrollment,
		AttendanceLedger:  ledger,
	}
	return NewHandler(svcs, logger.Nop())
}
