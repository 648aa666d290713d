package tui

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tesso57/commit-pet/internal/engine"
	perrors "github.com/tesso57/commit-pet/internal/errors"
	"github.com/tesso57/commit-pet/internal/pet"
	"github.com/tesso57/commit-pet/internal/storage"
	"github.com/tesso57/commit-pet/internal/ui"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var boardNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

type fakeService struct {
	status  *engine.StatusResult
	feed    *pet.FeedResult
	feedErr error
	journal bool
	recent  []storage.FeedRecord
	fed     int
}

func (f *fakeService) Status(ctx context.Context) (*engine.StatusResult, error) {
	return f.status, nil
}

func (f *fakeService) Feed(ctx context.Context) (*pet.FeedResult, error) {
	f.fed++
	return f.feed, f.feedErr
}

func (f *fakeService) History(ctx context.Context, limit int) ([]storage.FeedRecord, error) {
	return f.recent, nil
}

func (f *fakeService) HasJournal() bool { return f.journal }

func chickStatus(t *testing.T) *engine.StatusResult {
	t.Helper()
	info, err := pet.GetStageInfo(pet.StageChick)
	require.NoError(t, err)
	return &engine.StatusResult{
		State:           pet.State{Stage: pet.StageChick, Exp: 7, UpdatedAt: boardNow.Add(-time.Hour)},
		Info:            info,
		Progress:        20,
		NextRequirement: 15,
		HasNext:         true,
	}
}

func newTestModel(svc *fakeService) boardModel {
	r := ui.Renderer{Theme: ui.NewTheme(io.Discard, true), Now: func() time.Time { return boardNow }}
	return newBoardModel(context.Background(), svc, r, nil)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m boardModel, msg tea.Msg) (boardModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	bm, ok := next.(boardModel)
	require.True(t, ok)
	return bm, cmd
}

func TestBoardLoadsStatus(t *testing.T) {
	svc := &fakeService{
		status:  chickStatus(t),
		journal: true,
		recent:  []storage.FeedRecord{{FedAt: boardNow.Add(-2 * time.Hour), ExpGained: 3, StageBefore: pet.StageEgg, StageAfter: pet.StageChick}},
	}
	m := newTestModel(svc)
	assert.Contains(t, m.View(), "Loading")

	msg := m.loadCmd()()
	m, _ = update(t, m, msg)
	require.NotNil(t, m.status)
	assert.False(t, m.loading)

	view := m.View()
	assert.Contains(t, view, "Chick | 7 EXP")
	assert.Contains(t, view, "Progress to next stage: 20%")
	assert.Contains(t, view, "+3 EXP 2 hours ago")
	assert.Contains(t, view, "EVOLVED")
	assert.Contains(t, view, "f: feed")
}

func TestBoardHidesHistoryWithoutJournal(t *testing.T) {
	m := newTestModel(&fakeService{status: chickStatus(t)})
	m, _ = update(t, m, m.loadCmd()())
	assert.NotContains(t, m.View(), "Recent feeds")
}

func TestBoardFeedKey(t *testing.T) {
	svc := &fakeService{
		status: chickStatus(t),
		feed:   &pet.FeedResult{PreviousStage: pet.StageChick, CurrentStage: pet.StageChicken, CommitCount: 8, ExperienceGained: 8, TotalExp: 15},
	}
	m := newTestModel(svc)
	m, _ = update(t, m, m.loadCmd()())

	m, cmd := update(t, m, key("f"))
	require.NotNil(t, cmd)
	assert.True(t, m.feeding)

	// A second press while a feed is in flight is ignored.
	_, again := update(t, m, key("f"))
	assert.Nil(t, again)

	m, reload := update(t, m, cmd())
	assert.Equal(t, 1, svc.fed)
	assert.False(t, m.feeding)
	assert.Equal(t, "Fed 8 commits: +8 EXP (total 15). Evolved from chick to chicken!", m.lastLog)
	assert.NotNil(t, reload)
}

func TestBoardFeedWithoutCommits(t *testing.T) {
	svc := &fakeService{status: chickStatus(t), feed: &pet.FeedResult{PreviousStage: pet.StageChick, CurrentStage: pet.StageChick, TotalExp: 7}}
	m := newTestModel(svc)
	m, cmd := update(t, m, key("f"))
	m, _ = update(t, m, cmd())
	assert.Equal(t, "No new commits since last feeding!", m.lastLog)
}

func TestBoardFeedError(t *testing.T) {
	svc := &fakeService{status: chickStatus(t), feedErr: perrors.New(perrors.KindGit, "Not a git repository")}
	m := newTestModel(svc)
	m, _ = update(t, m, m.loadCmd()())
	m, cmd := update(t, m, key("f"))
	m, reload := update(t, m, cmd())
	assert.Nil(t, reload)
	assert.Equal(t, "Feed failed: [GIT_ERROR] Not a git repository", m.lastLog)
	assert.Contains(t, m.View(), "Chick", "a failed feed keeps the board")
}

func TestBoardLoadError(t *testing.T) {
	m := newTestModel(&fakeService{})
	m, _ = update(t, m, loadedMsg{err: errors.New("boom")})
	assert.Contains(t, m.View(), "Error: boom")
}

func TestBoardQuitKeys(t *testing.T) {
	m := newTestModel(&fakeService{status: chickStatus(t)})
	for _, msg := range []tea.KeyMsg{key("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := update(t, m, msg)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
	}
}

func TestBoardReloadsOnStateChange(t *testing.T) {
	changes := make(chan struct{}, 1)
	m := newTestModel(&fakeService{status: chickStatus(t)})
	m.changes = changes

	changes <- struct{}{}
	msg := m.waitCmd()()
	assert.Equal(t, stateChangedMsg{}, msg)

	m, cmd := update(t, m, msg)
	assert.NotNil(t, cmd)
	assert.Equal(t, "State changed on disk, reloading…", m.lastLog)

	close(changes)
	assert.Nil(t, m.waitCmd()())
}
