package git

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	perrors "github.com/tesso57/commit-pet/internal/errors"
	"github.com/tesso57/commit-pet/internal/pet"
)

// Repo answers the handful of questions commit-pet asks about a repository.
// Only commit identity and count are used; commit content is never read.
type Repo struct {
	dir  string
	exec CommandExecutor
	log  *zap.Logger
}

// NewRepo returns a Repo rooted at dir ("" means the process working directory).
func NewRepo(dir string, executor CommandExecutor, log *zap.Logger) *Repo {
	if executor == nil {
		executor = NewExecExecutor()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Repo{dir: dir, exec: executor, log: log}
}

func (r *Repo) git(ctx context.Context, args ...string) (string, error) {
	r.log.Debug("git", zap.Strings("args", args), zap.String("dir", r.dir))
	out, err := r.exec.Output(ctx, r.dir, "git", args...)
	if err != nil && errors.Is(err, exec.ErrNotFound) {
		return "", &perrors.Error{
			Kind:    perrors.KindGit,
			Message: "git executable not found",
			Hint:    "Install git and make sure it is on your PATH",
			Err:     err,
		}
	}
	return out, err
}

// asTagged unwraps the *perrors.Error produced by git() for missing binaries.
func asTagged(err error) (*perrors.Error, bool) {
	var e *perrors.Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsRepository reports whether dir belongs to a git repository. The .git
// directory itself and bare repositories count.
func (r *Repo) IsRepository(ctx context.Context) (bool, error) {
	out, err := r.git(ctx, "rev-parse", "--git-dir")
	if err != nil {
		if e, ok := asTagged(err); ok {
			return false, e
		}
		return false, nil
	}
	return out != "", nil
}

// HasCommits reports whether HEAD resolves to a commit.
func (r *Repo) HasCommits(ctx context.Context) (bool, error) {
	_, err := r.LatestCommit(ctx)
	if err == nil {
		return true, nil
	}
	if perrors.Is(err, perrors.ErrNoCommits) {
		return false, nil
	}
	return false, err
}

// LatestCommit returns the id of HEAD.
func (r *Repo) LatestCommit(ctx context.Context) (pet.SHA, error) {
	out, err := r.git(ctx, "rev-parse", "--verify", "--quiet", "HEAD^{commit}")
	if err != nil {
		if e, ok := asTagged(err); ok {
			return "", e
		}
		return "", &perrors.Error{
			Kind:    perrors.KindGit,
			Message: "No commits found in this repository!",
			Hint:    "Make your first commit with: git commit",
			Err:     perrors.ErrNoCommits,
		}
	}
	sha, err := pet.ParseSHA(out)
	if err != nil {
		return "", perrors.Wrap(perrors.KindGit, err, "unexpected output from git rev-parse")
	}
	return sha, nil
}

// CommitsSince lists commits reachable from HEAD but not from since, newest
// first. An empty since lists every commit. If since no longer resolves (for
// example after a rebase or force-push) every commit is listed instead, so a
// rewritten history can credit old commits a second time.
func (r *Repo) CommitsSince(ctx context.Context, since pet.SHA) ([]pet.SHA, error) {
	if since.IsZero() {
		return r.AllCommits(ctx)
	}
	out, err := r.git(ctx, "log", "--format=%H", since.String()+"..HEAD")
	if err != nil {
		if e, ok := asTagged(err); ok {
			return nil, e
		}
		r.log.Warn("last fed commit no longer resolves, counting all commits", zap.String("sha", since.String()), zap.Error(err))
		return r.AllCommits(ctx)
	}
	return parseLog(out)
}

// AllCommits lists every commit reachable from HEAD, newest first.
func (r *Repo) AllCommits(ctx context.Context) ([]pet.SHA, error) {
	out, err := r.git(ctx, "log", "--format=%H")
	if err != nil {
		if e, ok := asTagged(err); ok {
			return nil, e
		}
		return nil, perrors.Wrap(perrors.KindGit, err, "Failed to list commits")
	}
	return parseLog(out)
}

func parseLog(out string) ([]pet.SHA, error) {
	var shas []pet.SHA
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sha, err := pet.ParseSHA(line)
		if err != nil {
			return nil, perrors.Wrap(perrors.KindGit, err, "unexpected output from git log")
		}
		shas = append(shas, sha)
	}
	return shas, nil
}
