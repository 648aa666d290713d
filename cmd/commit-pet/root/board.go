package root

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tesso57/commit-pet/internal/tui"
)

func newBoardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the live pet board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, a, true)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.RunBoard(ctx, svc, a.renderer(cmd.OutOrStdout()), a.log, cmd.OutOrStdout())
		},
	}

	return cmd
}
