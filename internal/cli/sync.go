package cli

import (
	"github.com/dmitrijs2005/passync/internal/services"
	"github.com/spf13/cobra"
)

func newSyncCmd(a *App) *cobra.Command {
	var opts services.SyncOptions

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Copy the newest password export to the side that is behind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := a.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			rep, err := s.sync.Sync(ctx, opts)
			if err != nil {
				return err
			}

			printReport(cmd.OutOrStdout(), rep)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "only print what would be done")
	return cmd
}
