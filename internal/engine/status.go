package engine

import (
	"context"

	perrors "github.com/tesso57/commit-pet/internal/errors"
	"github.com/tesso57/commit-pet/internal/pet"
	"github.com/tesso57/commit-pet/internal/storage"
)

type StatusResult struct {
	State    pet.State
	Info     pet.StageInfo
	Progress int
	// NextRequirement is the exp at which the pet next evolves; HasNext is false for a dragon.
	NextRequirement pet.Exp
	HasNext         bool
	ConfigPath      string
}

// Remaining is the number of exp points still needed to evolve.
func (r StatusResult) Remaining() pet.Exp {
	if !r.HasNext || r.NextRequirement <= r.State.Exp {
		return 0
	}
	return r.NextRequirement - r.State.Exp
}

// Status reads the pet without touching git or the state file's contents.
func (s *Service) Status(ctx context.Context) (*StatusResult, error) {
	st, err := s.state.Load()
	if err != nil {
		return nil, err
	}
	info, err := pet.GetStageInfo(st.Stage)
	if err != nil {
		return nil, err
	}
	next, ok := pet.NextStageRequirement(st.Exp)
	return &StatusResult{
		State:           st,
		Info:            info,
		Progress:        pet.ProgressPercentage(st.Exp),
		NextRequirement: next,
		HasNext:         ok,
		ConfigPath:      s.state.Path(),
	}, nil
}

// History returns the most recent feeds, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]storage.FeedRecord, error) {
	if s.journal == nil {
		return nil, perrors.New(perrors.KindState, "Feed history is disabled").
			WithHint("Set history.enabled: true in config.yaml")
	}
	recs, err := s.journal.ListRecent(ctx, limit)
	if err != nil {
		return nil, perrors.Wrap(perrors.KindState, err, "Failed to read feed history")
	}
	return recs, nil
}

// FedCommits is the number of commits credited over the whole journal.
func (s *Service) FedCommits(ctx context.Context) (int, error) {
	if s.journal == nil {
		return 0, perrors.New(perrors.KindState, "Feed history is disabled")
	}
	n, err := s.journal.TotalCommits(ctx)
	if err != nil {
		return 0, perrors.Wrap(perrors.KindState, err, "Failed to read feed history")
	}
	return n, nil
}
