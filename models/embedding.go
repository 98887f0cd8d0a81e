package models

import "time"

// Embedding is a fixed-length numeric face descriptor produced by an
// external extraction model. Two embeddings are comparable only when their
// dimensions match.
type Embedding []float64

// Dim returns the dimensionality of the embedding vector.
func (e Embedding) Dim() int {
	return len(e)
}

// FaceReference is a reference embedding enrolled for a user. A user may
// hold several references (different capture angles); every reference
// belongs to exactly one user.
type FaceReference struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Embedding Embedding `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the FaceReference model.
func (f FaceReference) TableName() string {
	return "face_embeddings"
}

// MatchResult is the outcome of a successful identification: the owner of
// the best-scoring reference and the similarity score it achieved.
type MatchResult struct {
	UserID int64   `json:"user_id"`
	Score  float64 `json:"score"`
}
