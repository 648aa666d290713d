package root

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tesso57/commit-pet/internal/config"
	perrors "github.com/tesso57/commit-pet/internal/errors"
	"github.com/tesso57/commit-pet/internal/logger"
	"github.com/tesso57/commit-pet/internal/ui"
)

const Version = "1.0.0"

// app carries what PersistentPreRunE resolves for the subcommands.
type app struct {
	env     config.Env
	stderr  io.Writer
	verbose bool

	cfg config.Config
	log *zap.Logger
}

func (a *app) monochrome() bool {
	return a.cfg.Display.ColorScheme == config.ColorSchemeMonochrome
}

func (a *app) renderer(out io.Writer) ui.Renderer {
	return ui.NewRenderer(out, a.cfg.Display.ShowEmoji, a.monochrome())
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           config.AppName,
		Short:         "Feed your commits to a virtual pet",
		Long:          "commit-pet turns your git commits into food for a pet that grows from an egg into a dragon.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.log = logger.New(a.verbose, a.stderr)
			cfg, err := config.Load(a.env, a.log)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log.Debug("config loaded", zap.String("dir", cfg.Dir), zap.Bool("history", cfg.History.Enabled))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "print debug logs to stderr")

	rootCmd.AddCommand(
		newFeedCmd(a),
		newStatusCmd(a),
		newHistoryCmd(a),
		newBoardCmd(a),
	)
	return rootCmd
}

// Run executes the CLI with args and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer, env config.Env) int {
	a := &app{env: env, stderr: stderr, log: zap.NewNop()}
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	_ = a.log.Sync()
	if err != nil {
		theme := ui.NewTheme(stderr, a.monochrome())
		fmt.Fprintln(stderr, theme.Bad.Render(ui.IconError+" Error: "+perrors.Format(err)))
		if hint := perrors.HintOf(err); hint != "" {
			fmt.Fprintln(stderr, theme.Muted.Render(hint))
		}
		return 1
	}
	return 0
}

func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr, os.LookupEnv))
}
