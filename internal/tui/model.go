package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tesso57/commit-pet/internal/engine"
	perrors "github.com/tesso57/commit-pet/internal/errors"
	"github.com/tesso57/commit-pet/internal/pet"
	"github.com/tesso57/commit-pet/internal/storage"
	"github.com/tesso57/commit-pet/internal/ui"
)

const recentFeeds = 5

// petService is the slice of engine.Service the board drives.
type petService interface {
	Status(ctx context.Context) (*engine.StatusResult, error)
	Feed(ctx context.Context) (*pet.FeedResult, error)
	History(ctx context.Context, limit int) ([]storage.FeedRecord, error)
	HasJournal() bool
}

type boardModel struct {
	ctx     context.Context
	svc     petService
	r       ui.Renderer
	changes <-chan struct{}

	width  int
	height int

	status *engine.StatusResult
	recent []storage.FeedRecord

	lastLog string
	loading bool
	feeding bool
	err     error
}

type loadedMsg struct {
	status *engine.StatusResult
	recent []storage.FeedRecord
	// historyErr is shown in the footer; the board still renders.
	historyErr error
	err        error
}

type fedMsg struct {
	res *pet.FeedResult
	err error
}

type stateChangedMsg struct{}

func newBoardModel(ctx context.Context, svc petService, r ui.Renderer, changes <-chan struct{}) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		r:       r,
		changes: changes,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.waitCmd())
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		st, err := m.svc.Status(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		msg := loadedMsg{status: st}
		if m.svc.HasJournal() {
			msg.recent, msg.historyErr = m.svc.History(m.ctx, recentFeeds)
		}
		return msg
	}
}

func (m boardModel) feedCmd() tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.Feed(m.ctx)
		return fedMsg{res: res, err: err}
	}
}

// waitCmd blocks until the watcher reports a write to the state file.
func (m boardModel) waitCmd() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return stateChangedMsg{}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + perrors.Format(msg.err)
			return m, nil
		}
		m.status = msg.status
		m.recent = msg.recent
		if msg.historyErr != nil {
			m.lastLog = "History unavailable: " + perrors.Format(msg.historyErr)
			return m, nil
		}
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case fedMsg:
		m.feeding = false
		if msg.err != nil {
			m.lastLog = "Feed failed: " + perrors.Format(msg.err)
			return m, nil
		}
		m.lastLog = feedLog(msg.res)
		return m, m.loadCmd()
	case stateChangedMsg:
		if !m.feeding {
			m.lastLog = "State changed on disk, reloading…"
		}
		return m, tea.Batch(m.loadCmd(), m.waitCmd())
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "f":
			if m.feeding {
				return m, nil
			}
			m.feeding = true
			m.lastLog = "Feeding…"
			return m, m.feedCmd()
		}
	}
	return m, nil
}

func feedLog(res *pet.FeedResult) string {
	if res.CommitCount == 0 {
		return "No new commits since last feeding!"
	}
	s := fmt.Sprintf("Fed %s: +%d EXP (total %d)", ui.Plural(res.CommitCount, "commit"), res.ExperienceGained, res.TotalExp)
	if res.Evolved() {
		s += fmt.Sprintf(". Evolved from %s to %s!", res.PreviousStage, res.CurrentStage)
	}
	return s
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + perrors.Format(m.err) + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	if m.status == nil {
		return header + "\n\nLoading…\n" + m.renderFooter()
	}

	leftW := 30
	if m.width > 0 && m.width/2 < leftW {
		leftW = m.width / 2
	}
	if leftW < 20 {
		leftW = 20
	}
	left := m.r.Theme.Panel.Width(leftW).Render(m.r.PetCard(m.status.Info, m.status.State.Exp, m.status.State.UpdatedAt))
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", m.renderMain())

	return header + "\n\n" + body + "\n" + m.renderFooter()
}

func (m boardModel) renderHeader() string {
	t := m.r.Theme
	if m.status == nil {
		return t.Title.Render("Commit Pet") + t.Muted.Render(" | loading…")
	}
	st := m.status.State
	return t.Title.Render("Commit Pet") + t.Muted.Render(fmt.Sprintf(" | %s | %d EXP", st.Stage.Title(), st.Exp))
}

func (m boardModel) renderMain() string {
	t := m.r.Theme
	var out []string
	out = append(out, t.H2.Render("Progress"))
	out = append(out, m.r.Progress(m.status))
	out = append(out, "")

	if m.svc.HasJournal() {
		out = append(out, t.H2.Render("Recent feeds"))
		if len(m.recent) == 0 {
			out = append(out, t.Muted.Render("(none yet)"))
		}
		for _, rec := range m.recent {
			line := fmt.Sprintf("- +%d EXP %s", rec.ExpGained, t.Muted.Render(m.r.LastFed(rec.FedAt)))
			if rec.Evolved() {
				line += " " + t.BadgeEvolved()
			}
			out = append(out, line)
		}
		out = append(out, "")
	}

	out = append(out, t.H2.Render("Keys"))
	out = append(out, "- f: feed")
	out = append(out, "- r: refresh")
	out = append(out, "- q: quit")
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.r.Theme.Muted.Render(m.lastLog)
}
