package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/config"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/logger"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/models"
)

// sessionState is the login state machine position. Fields of session are
// meaningful only in the states noted on them.
type sessionState int

const (
	// stateAnonymous: fresh session, nothing established yet.
	stateAnonymous sessionState = iota

	// stateFaceIdentified: a face matched; pendingUserID names who, and
	// only that user's credentials may complete the login.
	stateFaceIdentified

	// stateAuthenticated: credentials verified; principal is set.
	stateAuthenticated
)

type session struct {
	state sessionState

	// pendingUserID is set only in stateFaceIdentified.
	pendingUserID int64

	// principal is set only in stateAuthenticated.
	principal models.Principal

	// touchedAt drives TTL pruning.
	touchedAt time.Time
}

// sessionService keeps one session per login attempt, keyed by the opaque
// ID the web layer carries in a header. Sessions live in memory; a restart
// logs everyone out, which matches the JWT being the durable credential.
type sessionService struct {
	auth   AuthService
	matcher Matcher
	ledger AttendanceLedger

	// ttl is how long an unfinished session survives between touches.
	ttl time.Duration

	logger *logger.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessionService(auth AuthService, matcher Matcher, ledger AttendanceLedger, cfg config.Auth, logger *logger.Logger) SessionService {
	return &sessionService{
		auth:     auth,
		matcher:  matcher,
		ledger:   ledger,
		ttl:      cfg.SessionTTL,
		logger:   logger,
		sessions: map[string]*session{},
	}
}

// SubmitFace runs identification on the probe and, on a match, moves the
// session to the face-identified state. A no-match leaves the session
// anonymous and returns ErrNoMatch so the caller may retry or fall back to
// password-only login.
func (s *sessionService) SubmitFace(ctx context.Context, sessionID string, probe models.Embedding) (models.MatchResult, error) {
	log := logger.FromContext(ctx)

	match, err := s.matcher.Identify(ctx, probe)
	if err != nil {
		if errors.Is(err, ErrNoMatch) {
			log.Info().Str("session_id", sessionID).Msg("face not recognized, session stays anonymous")
			return models.MatchResult{}, ErrNoMatch
		}
		return models.MatchResult{}, fmt.Errorf("face identification failed: %w", err)
	}

	s.withSession(sessionID, func(sess *session) {
		// an already authenticated session is not downgraded by a late probe
		if sess.state == stateAuthenticated {
			return
		}
		sess.state = stateFaceIdentified
		sess.pendingUserID = match.UserID
	})

	log.Info().
		Str("session_id", sessionID).
		Int64("user_id", match.UserID).
		Float64("score", match.Score).
		Msg("face identified, awaiting credentials")

	return match, nil
}

// SubmitCredentials completes the login. When the session carries a pending
// face identity, the credential owner must be the same user; otherwise the
// attempt fails with ErrIdentityMismatch and the pending state is kept so
// the right user may still finish.
//
// On success the session becomes authenticated, a token is issued, and an
// attendance entry is recorded. Ledger failures are logged and swallowed;
// an entry gap must never lock personnel out.
func (s *sessionService) SubmitCredentials(ctx context.Context, sessionID string, username string, password string) (models.Token, error) {
	log := logger.FromContext(ctx)

	user, err := s.auth.VerifyCredentials(ctx, username, password)
	if err != nil {
		return models.Token{}, err
	}

	var mismatch bool
	s.withSession(sessionID, func(sess *session) {
		if sess.state == stateFaceIdentified && sess.pendingUserID != user.UserID {
			mismatch = true
			return
		}

		sess.state = stateAuthenticated
		sess.pendingUserID = 0
		sess.principal = models.Principal{
			UserID:   user.UserID,
			Username: user.Username,
			Role:     user.Role,
		}
	})
	if mismatch {
		log.Warn().
			Str("session_id", sessionID).
			Str("username", username).
			Msg("credentials belong to a different user than the identified face")
		return models.Token{}, ErrIdentityMismatch
	}

	token, err := s.auth.CreateToken(ctx, models.Principal{UserID: user.UserID, Username: user.Username, Role: user.Role})
	if err != nil {
		return models.Token{}, err
	}

	if _, err := s.ledger.RecordEntry(ctx, user.UserID, time.Now(), ""); err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("attendance entry failed, login continues")
	}

	log.Info().Str("session_id", sessionID).Int64("user_id", user.UserID).Msg("login completed")
	return token, nil
}

// Logout drops the session and records an attendance exit for the user.
// "Nothing to close" and other ledger failures are logged and swallowed.
func (s *sessionService) Logout(ctx context.Context, sessionID string, userID int64) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if _, err := s.ledger.RecordExit(ctx, userID, time.Now()); err != nil {
		if errors.Is(err, ErrNothingToClose) {
			log.Debug().Int64("user_id", userID).Msg("logout without open attendance record")
		} else {
			log.Err(err).Int64("user_id", userID).Msg("attendance exit failed, logout continues")
		}
	}

	log.Info().Str("session_id", sessionID).Int64("user_id", userID).Msg("logout completed")
	return nil
}

// CurrentPrincipal returns the session's authenticated identity, if any.
func (s *sessionService) CurrentPrincipal(sessionID string) (models.Principal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok || sess.state != stateAuthenticated || s.expired(sess) {
		return models.Principal{}, false
	}

	sess.touchedAt = time.Now()
	return sess.principal, true
}

// withSession runs fn on the session for id under the lock, creating the
// session when absent and pruning expired entries on the way in.
func (s *sessionService) withSession(id string, fn func(*session)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()

	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{state: stateAnonymous}
		s.sessions[id] = sess
	}
	sess.touchedAt = time.Now()

	fn(sess)
}

func (s *sessionService) expired(sess *session) bool {
	return s.ttl > 0 && time.Since(sess.touchedAt) > s.ttl
}

func (s *sessionService) pruneLocked() {
	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
		}
	}
}
