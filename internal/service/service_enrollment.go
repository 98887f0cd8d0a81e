package service

import (
	"context"
	"fmt"

	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/logger"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/store"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/models"
)

// enrollmentService finalizes face enrollment for provisional accounts and
// handles the rollback paths. A duplicate face aborts the registration:
// the provisional account is deleted so the username frees up again.
type enrollmentService struct {
	userRepository      store.UserRepository
	embeddingRepository store.EmbeddingRepository
	matcher             Matcher
	logger              *logger.Logger
}

func NewEnrollmentService(userRepository store.UserRepository, embeddingRepository store.EmbeddingRepository, matcher Matcher, logger *logger.Logger) EnrollmentService {
	return &enrollmentService{
		userRepository:      userRepository,
		embeddingRepository: embeddingRepository,
		matcher:             matcher,
		logger:              logger,
	}
}

// EnrollFace stores the embedding as a reference for the user after the
// duplicate-face guard passes.
//
// When the candidate matches a reference enrolled for ANOTHER user and the
// enrolling account holds no references yet, the account is treated as a
// failed registration and deleted before ErrDuplicateFace is returned.
// Accounts that already hold references keep them (adding another angle for
// oneself is always allowed).
func (e *enrollmentService) EnrollFace(ctx context.Context, userID int64, embedding models.Embedding) (models.FaceReference, error) {
	log := logger.FromContext(ctx)

	match, found, err := e.matcher.CheckDuplicate(ctx, embedding)
	if err != nil {
		return models.FaceReference{}, fmt.Errorf("duplicate check failed: %w", err)
	}

	if found && match.UserID != userID {
		log.Warn().
			Int64("user_id", userID).
			Int64("enrolled_user_id", match.UserID).
			Float64("score", match.Score).
			Msg("enrollment candidate already enrolled for another user")

		if err := e.rollbackProvisional(ctx, userID); err != nil {
			log.Err(err).Int64("user_id", userID).Msg("rollback of provisional account failed")
		}

		return models.FaceReference{}, ErrDuplicateFace
	}

	reference, err := e.embeddingRepository.SaveReference(ctx, userID, embedding)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("saving face reference failed")
		return models.FaceReference{}, fmt.Errorf("saving face reference failed: %w", err)
	}

	if err := e.matcher.Reload(ctx); err != nil {
		log.Err(err).Msg("reference snapshot refresh after enrollment failed")
	}

	return reference, nil
}

// RejectEnrollment removes a provisional account whose owner declined to
// enroll a face. Accounts that already hold references are left alone.
func (e *enrollmentService) RejectEnrollment(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	if err := e.rollbackProvisional(ctx, userID); err != nil {
		log.Err(err).Int64("user_id", userID).Msg("enrollment rejection failed")
		return fmt.Errorf("enrollment rejection failed: %w", err)
	}

	return nil
}

// ReplaceFace swaps out everything enrolled for the target user with the
// given embedding. The duplicate guard still applies, but a conflict never
// rolls the account back: a user being re-enrolled is not provisional.
// Operators may replace only their own references; admins may replace anyone's.
func (e *enrollmentService) ReplaceFace(ctx context.Context, actor models.Principal, targetUserID int64, embedding models.Embedding) error {
	log := logger.FromContext(ctx)

	if actor.Role != models.RoleAdmin && actor.UserID != targetUserID {
		log.Warn().
			Int64("actor_id", actor.UserID).
			Int64("target_id", targetUserID).
			Msg("non-admin attempted to replace another user's references")
		return ErrForbidden
	}

	match, found, err := e.matcher.CheckDuplicate(ctx, embedding)
	if err != nil {
		return fmt.Errorf("duplicate check failed: %w", err)
	}
	if found && match.UserID != targetUserID {
		log.Warn().
			Int64("target_id", targetUserID).
			Int64("enrolled_user_id", match.UserID).
			Float64("score", match.Score).
			Msg("replacement candidate already enrolled for another user")
		return ErrDuplicateFace
	}

	if err := e.embeddingRepository.ReplaceReferences(ctx, targetUserID, embedding); err != nil {
		return fmt.Errorf("replacing references failed: %w", err)
	}

	if err := e.matcher.Reload(ctx); err != nil {
		log.Err(err).Msg("reference snapshot refresh after replacement failed")
	}

	return nil
}

// RevokeFaces removes every reference enrolled for the target user.
// Operators may revoke only their own references; admins may revoke anyone's.
func (e *enrollmentService) RevokeFaces(ctx context.Context, actor models.Principal, targetUserID int64) error {
	log := logger.FromContext(ctx)

	if actor.Role != models.RoleAdmin && actor.UserID != targetUserID {
		log.Warn().
			Int64("actor_id", actor.UserID).
			Int64("target_id", targetUserID).
			Msg("non-admin attempted to revoke another user's references")
		return ErrForbidden
	}

	if err := e.embeddingRepository.DeleteReferences(ctx, targetUserID); err != nil {
		return fmt.Errorf("revoking references failed: %w", err)
	}

	if err := e.matcher.Reload(ctx); err != nil {
		log.Err(err).Msg("reference snapshot refresh after revocation failed")
	}

	return nil
}

// rollbackProvisional deletes the user only while the account is still
// provisional, i.e. holds no enrolled references.
func (e *enrollmentService) rollbackProvisional(ctx context.Context, userID int64) error {
	count, err := e.embeddingRepository.CountReferences(ctx, userID)
	if err != nil {
		return fmt.Errorf("counting references: %w", err)
	}
	if count > 0 {
		return nil
	}

	if err := e.userRepository.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("deleting provisional user: %w", err)
	}

	return nil
}
