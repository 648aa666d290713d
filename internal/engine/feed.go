package engine

import (
	"context"

	"go.uber.org/zap"

	perrors "github.com/tesso57/commit-pet/internal/errors"
	"github.com/tesso57/commit-pet/internal/pet"
	"github.com/tesso57/commit-pet/internal/storage"
)

// Feed credits every commit made since the last feed and evolves the pet.
// When there is nothing new the stored record is left untouched.
func (s *Service) Feed(ctx context.Context) (*pet.FeedResult, error) {
	if err := s.requireRepository(ctx); err != nil {
		return nil, err
	}

	cur, err := s.state.Load()
	if err != nil {
		return nil, err
	}

	commits, err := s.repo.CommitsSince(ctx, cur.LastSHA)
	if err != nil {
		return nil, err
	}

	res := &pet.FeedResult{
		PreviousStage: cur.Stage,
		CurrentStage:  cur.Stage,
		CommitCount:   len(commits),
		TotalExp:      cur.Exp,
	}
	if len(commits) == 0 {
		s.log.Debug("no new commits since last feed", zap.String("lastSha", cur.LastSHA.String()))
		return res, nil
	}

	head, err := s.repo.LatestCommit(ctx)
	if err != nil {
		return nil, err
	}

	gained := pet.Exp(len(commits)) * s.expPerCommit
	next := pet.State{
		Exp:       cur.Exp + gained,
		LastSHA:   head,
		UpdatedAt: s.now(),
	}
	next.Stage = pet.CalculateStage(next.Exp)

	if err := s.state.Save(next); err != nil {
		return nil, err
	}

	res.CurrentStage = next.Stage
	res.ExperienceGained = gained
	res.TotalExp = next.Exp

	s.record(ctx, res, next)
	return res, nil
}

func (s *Service) requireRepository(ctx context.Context) error {
	ok, err := s.repo.IsRepository(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return &perrors.Error{
			Kind:    perrors.KindGit,
			Message: "Not in a git repository!",
			Hint:    "Initialize a git repository with: git init",
			Err:     perrors.ErrNotGitRepository,
		}
	}

	has, err := s.repo.HasCommits(ctx)
	if err != nil {
		return err
	}
	if !has {
		return &perrors.Error{
			Kind:    perrors.KindGit,
			Message: "No commits found in this repository!",
			Hint:    "Make your first commit with: git commit",
			Err:     perrors.ErrNoCommits,
		}
	}
	return nil
}

// record appends the feed to the journal. The state file is the source of
// truth, so a journal failure only warns.
func (s *Service) record(ctx context.Context, res *pet.FeedResult, st pet.State) {
	if s.journal == nil {
		return
	}
	_, err := s.journal.Insert(ctx, storage.FeedRecord{
		FedAt:       st.UpdatedAt,
		CommitCount: res.CommitCount,
		ExpGained:   res.ExperienceGained,
		TotalExp:    res.TotalExp,
		StageBefore: res.PreviousStage,
		StageAfter:  res.CurrentStage,
		HeadSHA:     st.LastSHA,
	})
	if err != nil {
		s.log.Warn("could not record feed in history", zap.Error(err))
	}
}
