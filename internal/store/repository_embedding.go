package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/logger"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/models"
	"github.com/pgvector/pgvector-go"
)

// embeddingRepository stores reference embeddings in a pgvector column.
// Each row is one capture angle; ownership is exclusive per user and
// enforced upstream by the duplicate-face check at enrollment.
type embeddingRepository struct {
	logger    *logger.Logger
	db        *DB
	dimension int
}

func NewEmbeddingRepository(db *DB, dimension int, logger *logger.Logger) EmbeddingRepository {
	logger.Debug().Int("dimension", dimension).Msg("EmbeddingRepository created")
	return &embeddingRepository{
		db:        db,
		dimension: dimension,
		logger:    logger,
	}
}

func (r *embeddingRepository) SaveReference(ctx context.Context, userID int64, embedding models.Embedding) (models.FaceReference, error) {
	if embedding.Dim() != r.dimension {
		r.logger.Error().
			Str("func", "*embeddingRepository.SaveReference").
			Int("got", embedding.Dim()).
			Int("want", r.dimension).
			Msg("refusing to store embedding with wrong dimension")
		return models.FaceReference{}, ErrDimensionMismatch
	}

	reference := models.FaceReference{UserID: userID, Embedding: embedding}
	row := r.db.QueryRowContext(ctx, saveReference, userID, toVector(embedding))
	if err := row.Scan(&reference.ID, &reference.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Error().Str("func", "*embeddingRepository.SaveReference").Int64("user_id", userID).Msg("insert returned no row")
			return models.FaceReference{}, ErrReferenceNotSaved
		}
		r.logger.Err(err).Str("func", "*embeddingRepository.SaveReference").Int64("user_id", userID).Msg("error saving reference")
		return models.FaceReference{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return reference, nil
}

func (r *embeddingRepository) ReplaceReferences(ctx context.Context, userID int64, embedding models.Embedding) error {
	if embedding.Dim() != r.dimension {
		return ErrDimensionMismatch
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deleteReferences, userID); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	var id int64
	row := tx.QueryRowContext(ctx, saveReference, userID, toVector(embedding))
	var createdAt any
	if err := row.Scan(&id, &createdAt); err != nil {
		return fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (r *embeddingRepository) DeleteReferences(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, deleteReferences, userID); err != nil {
		r.logger.Err(err).Str("func", "*embeddingRepository.DeleteReferences").Int64("user_id", userID).Msg("error deleting references")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

func (r *embeddingRepository) CountReferences(ctx context.Context, userID int64) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, countReferences, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count, nil
}

func (r *embeddingRepository) AllReferences(ctx context.Context) ([]models.FaceReference, error) {
	rows, err := r.db.QueryContext(ctx, allReferences)
	if err != nil {
		r.logger.Err(err).Str("func", "*embeddingRepository.AllReferences").Msg("error querying references")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var references []models.FaceReference
	for rows.Next() {
		var reference models.FaceReference
		var vec pgvector.Vector
		if err := rows.Scan(&reference.ID, &reference.UserID, &vec, &reference.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}

		reference.Embedding = fromVector(vec)
		references = append(references, reference)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return references, nil
}

// toVector narrows a float64 embedding to the float32 representation
// pgvector stores.
func toVector(embedding models.Embedding) pgvector.Vector {
	values := make([]float32, len(embedding))
	for i, v := range embedding {
		values[i] = float32(v)
	}
	return pgvector.NewVector(values)
}

func fromVector(vec pgvector.Vector) models.Embedding {
	values := vec.Slice()
	embedding := make(models.Embedding, len(values))
	for i, v := range values {
		embedding[i] = float64(v)
	}
	return embedding
}
