package tui

import (
	"context"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/tesso57/commit-pet/internal/engine"
	"github.com/tesso57/commit-pet/internal/ui"
)

// RunBoard opens the full-screen pet board and blocks until the user quits.
// Writes to the state file from other processes refresh the view.
func RunBoard(ctx context.Context, svc *engine.Service, r ui.Renderer, log *zap.Logger, out io.Writer) error {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var changes <-chan struct{}
	path := svc.ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Warn("state directory unavailable, live refresh disabled", zap.Error(err))
	} else if w, err := newStateWatcher(path, log); err != nil {
		log.Warn("cannot watch state file, live refresh disabled", zap.String("path", path), zap.Error(err))
	} else {
		w.Start(ctx)
		defer func() { _ = w.Close(true) }()
		changes = w.Changes()
	}

	m := newBoardModel(ctx, svc, r, changes)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
