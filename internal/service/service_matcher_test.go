package service

import (
	"context"
	"testing"

	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/logger"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMatcher(references []models.FaceReference, dimension int, threshold float64) *matcherService {
	return &matcherService{
		dimension:          dimension,
		threshold:          threshold,
		duplicateThreshold: threshold,
		logger:             logger.Nop(),
		references:         references,
	}
}

// ─────────────────────────────────────────────
// Identify
// ─────────────────────────────────────────────

func TestMatcher_Identify_ExactReferenceScoresOne(t *testing.T) {
	references := []models.FaceReference{
		{ID: 1, UserID: 1, Embedding: models.Embedding{1, 0, 0}},
		{ID: 2, UserID: 2, Embedding: models.Embedding{0, 1, 0}},
	}
	m := newTestMatcher(references, 3, 0.6)

	match, err := m.Identify(context.Background(), models.Embedding{1, 0, 0})

	require.NoError(t, err)
	assert.Equal(t, int64(1), match.UserID)
	assert.InDelta(t, 1.0, match.Score, 1e-9)
}

func TestMatcher_Identify_NoReferenceAboveThreshold(t *testing.T) {
	references := []models.FaceReference{
		{ID: 1, UserID: 1, Embedding: models.Embedding{1, 0, 0}},
	}
	m := newTestMatcher(references, 3, 0.6)

	// orthogonal probe, similarity 0
	_, err := m.Identify(context.Background(), models.Embedding{0, 0, 1})

	require.ErrorIs(t, err, ErrNoMatch)
}

func TestMatcher_Identify_PicksBestScoringUser(t *testing.T) {
	references := []models.FaceReference{
		{ID: 1, UserID: 1, Embedding: models.Embedding{1, 0, 0}},
		{ID: 2, UserID: 2, Embedding: models.Embedding{0.9, 0.1, 0}},
	}
	m := newTestMatcher(references, 3, 0.6)

	match, err := m.Identify(context.Background(), models.Embedding{0.9, 0.1, 0})

	require.NoError(t, err)
	assert.Equal(t, int64(2), match.UserID)
}

func TestMatcher_Identify_NeverCrossMatchesSeparatedUsers(t *testing.T) {
	// well separated references: each probe may only resolve to its owner
	references := []models.FaceReference{
		{ID: 1, UserID: 1, Embedding: models.Embedding{1, 0, 0}},
		{ID: 2, UserID: 2, Embedding: models.Embedding{0, 1, 0}},
		{ID: 3, UserID: 3, Embedding: models.Embedding{0, 0, 1}},
	}
	m := newTestMatcher(references, 3, 0.6)

	for _, reference := range references {
		match, err := m.Identify(context.Background(), reference.Embedding)
		require.NoError(t, err)
		assert.Equal(t, reference.UserID, match.UserID)
	}
}

func TestMatcher_Identify_TieResolvesToLowestUserID(t *testing.T) {
	same := models.Embedding{1, 0, 0}
	references := []models.FaceReference{
		{ID: 1, UserID: 3, Embedding: same},
		{ID: 2, UserID: 7, Embedding: same},
	}
	m := newTestMatcher(references, 3, 0.6)

	// snapshot order is (userID, id); repeated calls must agree
	for i := 0; i < 5; i++ {
		match, err := m.Identify(context.Background(), same)
		require.NoError(t, err)
		assert.Equal(t, int64(3), match.UserID)
	}
}

func TestMatcher_Identify_WrongDimension(t *testing.T) {
	m := newTestMatcher(nil, 128, 0.6)

	_, err := m.Identify(context.Background(), models.Embedding{1, 0})

	require.ErrorIs(t, err, ErrBadDimension)
}

func TestMatcher_Identify_EmptyReferenceSet(t *testing.T) {
	m := newTestMatcher(nil, 3, 0.6)

	_, err := m.Identify(context.Background(), models.Embedding{1, 0, 0})

	require.ErrorIs(t, err, ErrNoMatch)
}

// ─────────────────────────────────────────────
// CheckDuplicate
// ─────────────────────────────────────────────

func TestMatcher_CheckDuplicate_FindsEnrolledOwner(t *testing.T) {
	references := []models.FaceReference{
		{ID: 1, UserID: 4, Embedding: models.Embedding{1, 0, 0}},
	}
	m := newTestMatcher(references, 3, 0.6)

	match, found, err := m.CheckDuplicate(context.Background(), models.Embedding{1, 0, 0})

	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(4), match.UserID)
}

func TestMatcher_CheckDuplicate_BelowThresholdIsNotDuplicate(t *testing.T) {
	references := []models.FaceReference{
		{ID: 1, UserID: 4, Embedding: models.Embedding{1, 0, 0}},
	}
	m := newTestMatcher(references, 3, 0.6)

	// cos(60°) = 0.5, below the 0.6 duplicate threshold
	_, found, err := m.CheckDuplicate(context.Background(), models.Embedding{0.5, 0.8660254037844386, 0})

	require.NoError(t, err)
	assert.False(t, found)
}

func TestMatcher_CheckDuplicate_WrongDimension(t *testing.T) {
	m := newTestMatcher(nil, 128, 0.6)

	_, _, err := m.CheckDuplicate(context.Background(), models.Embedding{1})

	require.ErrorIs(t, err, ErrBadDimension)
}

// ─────────────────────────────────────────────
// Reload
// ─────────────────────────────────────────────

func TestMatcher_Reload_SwapsSnapshot(t *testing.T) {
	repo := &mockEmbeddingRepository{
		allReferencesFn: func(_ context.Context) ([]models.FaceReference, error) {
			return []models.FaceReference{
				{ID: 1, UserID: 9, Embedding: models.Embedding{0, 1, 0}},
			}, nil
		},
	}
	m := newTestMatcher(nil, 3, 0.6)
	m.embeddingRepository = repo

	require.NoError(t, m.Reload(context.Background()))

	match, err := m.Identify(context.Background(), models.Embedding{0, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, int64(9), match.UserID)
}

func TestMatcher_Reload_StorageError(t *testing.T) {
	repo := &mockEmbeddingRepository{
		allReferencesFn: func(_ context.Context) ([]models.FaceReference, error) {
			return nil, errStorage
		},
	}
	m := newTestMatcher(nil, 3, 0.6)
	m.embeddingRepository = repo

	err := m.Reload(context.Background())

	require.ErrorIs(t, err, errStorage)
}

// ─────────────────────────────────────────────
// cosineSimilarity
// ─────────────────────────────────────────────

func TestCosineSimilarity_Bounds(t *testing.T) {
	a := models.Embedding{1, 0}
	assert.InDelta(t, 1.0, cosineSimilarity(a, models.Embedding{2, 0}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity(a, models.Embedding{-3, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity(a, models.Embedding{0, 5}), 1e-9)
}

func TestCosineSimilarity_ZeroVector(t *testing.T) {
	assert.Equal(t, 0.0, cosineSimilarity(models.Embedding{0, 0}, models.Embedding{1, 0}))
}
