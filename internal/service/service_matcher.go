package service

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/config"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/logger"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/store"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/models"
	"gonum.org/v1/gonum/floats"
)

// matcherService identifies probes against an in-memory snapshot of the
// enrolled references. The snapshot is loaded from the store at startup and
// refreshed via Reload after every enrollment mutation, so the hot path
// never touches the database.
type matcherService struct {
	embeddingRepository store.EmbeddingRepository

	// dimension is the fixed embedding length; probes of any other length
	// are rejected before comparison.
	dimension int

	// threshold is the minimum similarity for Identify to report a match.
	threshold float64

	// duplicateThreshold is the similarity above which CheckDuplicate
	// considers the candidate the same face as an existing reference.
	duplicateThreshold float64

	logger *logger.Logger

	mu sync.RWMutex
	// references is ordered by (userID, referenceID); combined with the
	// strictly-greater comparison in bestMatch this makes ties resolve to
	// the lowest user ID.
	references []models.FaceReference
}

// NewMatcher constructs the matcher and loads the initial reference
// snapshot from the store.
func NewMatcher(ctx context.Context, embeddingRepository store.EmbeddingRepository, cfg config.Recognition, logger *logger.Logger) (Matcher, error) {
	m := &matcherService{
		embeddingRepository: embeddingRepository,
		dimension:           cfg.Dimension,
		threshold:           cfg.Threshold,
		duplicateThreshold:  cfg.DuplicateThreshold,
		logger:              logger,
	}

	if err := m.Reload(ctx); err != nil {
		return nil, fmt.Errorf("loading initial reference snapshot: %w", err)
	}

	return m, nil
}

func (m *matcherService) Identify(ctx context.Context, probe models.Embedding) (models.MatchResult, error) {
	log := logger.FromContext(ctx)

	if probe.Dim() != m.dimension {
		log.Error().
			Int("got", probe.Dim()).
			Int("want", m.dimension).
			Msg("identification probe has wrong dimension")
		return models.MatchResult{}, ErrBadDimension
	}

	best, found := m.bestMatch(probe)
	if !found || best.Score < m.threshold {
		log.Debug().Float64("best_score", best.Score).Msg("no reference above identification threshold")
		return models.MatchResult{}, ErrNoMatch
	}

	return best, nil
}

func (m *matcherService) CheckDuplicate(ctx context.Context, candidate models.Embedding) (models.MatchResult, bool, error) {
	if candidate.Dim() != m.dimension {
		return models.MatchResult{}, false, ErrBadDimension
	}

	best, found := m.bestMatch(candidate)
	if !found || best.Score <= m.duplicateThreshold {
		return models.MatchResult{}, false, nil
	}

	return best, true, nil
}

func (m *matcherService) Reload(ctx context.Context) error {
	references, err := m.embeddingRepository.AllReferences(ctx)
	if err != nil {
		return fmt.Errorf("refreshing reference snapshot: %w", err)
	}

	m.mu.Lock()
	m.references = references
	m.mu.Unlock()

	m.logger.Debug().Int("references", len(references)).Msg("reference snapshot reloaded")
	return nil
}

// bestMatch scans every reference and returns the highest-scoring one.
// The snapshot's (userID, referenceID) order plus the strictly-greater
// comparison keeps the result deterministic under score ties.
func (m *matcherService) bestMatch(probe models.Embedding) (models.MatchResult, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best models.MatchResult
	found := false
	for _, reference := range m.references {
		if reference.Embedding.Dim() != probe.Dim() {
			continue
		}

		score := cosineSimilarity(probe, reference.Embedding)
		if !found || score > best.Score {
			best = models.MatchResult{UserID: reference.UserID, Score: score}
			found = true
		}
	}

	return best, found
}

// cosineSimilarity returns the cosine of the angle between a and b,
// in [-1, 1]. A zero vector yields 0.
func cosineSimilarity(a, b models.Embedding) float64 {
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0
	}

	similarity := floats.Dot(a, b) / (normA * normB)

	// float rounding can push the ratio a hair outside [-1, 1]
	return math.Max(-1, math.Min(1, similarity))
}
