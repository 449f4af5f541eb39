package cli

import (
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the journal of past runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := a.openJournal(ctx, false)
			if err != nil {
				return err
			}
			defer s.Close()

			recs, err := s.journal.List(ctx, limit)
			if err != nil {
				return err
			}

			printHistory(cmd.OutOrStdout(), recs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "number", "n", 20, "number of runs to show, 0 for all")
	return cmd
}
