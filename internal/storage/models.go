package storage

import (
	"time"

	"github.com/tesso57/commit-pet/internal/pet"
)

// FeedRecord is one journal row: a feed that credited at least one commit.
type FeedRecord struct {
	ID          int64
	FedAt       time.Time
	CommitCount int
	ExpGained   pet.Exp
	TotalExp    pet.Exp
	StageBefore pet.Stage
	StageAfter  pet.Stage
	HeadSHA     pet.SHA
}

// Evolved reports whether this feed moved the pet to a new stage.
func (r FeedRecord) Evolved() bool {
	return r.StageBefore != r.StageAfter
}
