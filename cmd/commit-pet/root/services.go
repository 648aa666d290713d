package root

import (
	"context"

	"go.uber.org/zap"

	"github.com/tesso57/commit-pet/internal/engine"
	"github.com/tesso57/commit-pet/internal/git"
	"github.com/tesso57/commit-pet/internal/pet"
	"github.com/tesso57/commit-pet/internal/storage"
)

// openService wires the engine against the working directory's repository.
// The journal is opened only when withJournal is set, since opening creates
// history.db. A journal that cannot be opened only costs the history, never
// the feed.
func openService(ctx context.Context, a *app, withJournal bool) (*engine.Service, func(), error) {
	exp, err := pet.NewExp(a.cfg.Pet.ExpPerCommit)
	if err != nil {
		return nil, nil, err
	}
	opts := engine.Options{
		Repo:         git.NewRepo("", git.NewExecExecutor(), a.log),
		State:        storage.NewStateStore(a.cfg.StatePath(), a.log),
		ExpPerCommit: exp,
		Log:          a.log,
	}

	cleanup := func() {}
	if withJournal && a.cfg.History.Enabled {
		db, err := storage.Open(ctx, a.cfg.HistoryPath())
		if err != nil {
			a.log.Warn("feed history unavailable", zap.String("path", a.cfg.HistoryPath()), zap.Error(err))
		} else {
			opts.Journal = storage.NewFeedRepo(db)
			cleanup = func() {
				_ = db.Close()
			}
		}
	}
	return engine.NewService(opts), cleanup, nil
}
