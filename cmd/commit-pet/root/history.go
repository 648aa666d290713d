package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent feedings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, a, true)
			if err != nil {
				return err
			}
			defer cleanup()

			recs, err := svc.History(ctx, limit)
			if err != nil {
				return err
			}
			total, err := svc.FedCommits(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			r := a.renderer(out)
			fmt.Fprint(out, r.History(recs))
			fmt.Fprintln(out, r.Theme.LabelValue("Commits fed", total))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of feedings to show (0 for all)")
	return cmd
}
