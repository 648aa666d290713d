package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tesso57/commit-pet/internal/pet"
	"github.com/tesso57/commit-pet/internal/storage"
)

// Repository is the version-control collaborator. git.Repo implements it.
type Repository interface {
	IsRepository(ctx context.Context) (bool, error)
	HasCommits(ctx context.Context) (bool, error)
	CommitsSince(ctx context.Context, since pet.SHA) ([]pet.SHA, error)
	LatestCommit(ctx context.Context) (pet.SHA, error)
}

// StateStore persists the pet record. storage.StateStore implements it.
type StateStore interface {
	Load() (pet.State, error)
	Save(state pet.State) error
	Path() string
}

// Journal records feeds. storage.FeedRepo implements it.
type Journal interface {
	Insert(ctx context.Context, rec storage.FeedRecord) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]storage.FeedRecord, error)
	TotalCommits(ctx context.Context) (int, error)
}

type Options struct {
	Repo  Repository
	State StateStore
	// Journal is optional; feeds are not recorded when it is nil.
	Journal      Journal
	ExpPerCommit pet.Exp
	Log          *zap.Logger
	Now          func() time.Time
}

type Service struct {
	repo         Repository
	state        StateStore
	journal      Journal
	expPerCommit pet.Exp
	log          *zap.Logger
	now          func() time.Time
}

func NewService(opts Options) *Service {
	s := &Service{
		repo:         opts.Repo,
		state:        opts.State,
		journal:      opts.Journal,
		expPerCommit: opts.ExpPerCommit,
		log:          opts.Log,
		now:          opts.Now,
	}
	if s.expPerCommit < 1 {
		s.expPerCommit = pet.ExpPerCommit
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = storage.Now
	}
	return s
}

func (s *Service) ConfigPath() string { return s.state.Path() }

// HasJournal reports whether feeds are being recorded.
func (s *Service) HasJournal() bool { return s.journal != nil }
