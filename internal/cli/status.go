package cli

import (
	"github.com/spf13/cobra"
)

func newStatusCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the newest file on each side and the sync direction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := a.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			last, err := s.journal.Last(ctx)
			if err != nil {
				return err
			}

			rep, err := s.sync.Status(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printAuthenticated(w, s.cfg)
			printFiles(w, rep.Remote)
			printFiles(w, rep.Local)
			printReport(w, rep)
			printLastRun(w, last)
			return nil
		},
	}
}
