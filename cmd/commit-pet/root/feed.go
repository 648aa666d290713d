package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tesso57/commit-pet/internal/pet"
)

func newFeedCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Feed your pet with the commits made since the last feeding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, a, true)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.Feed(ctx)
			if err != nil {
				return err
			}
			info, err := pet.GetStageInfo(res.CurrentStage)
			if err != nil {
				return err
			}
			r := a.renderer(cmd.OutOrStdout())
			fmt.Fprint(cmd.OutOrStdout(), r.Feed(res, info, r.Now()))
			return nil
		},
	}

	return cmd
}
