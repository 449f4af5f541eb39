package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/passync/internal/config"
	"github.com/dmitrijs2005/passync/internal/models"
)

const timeLayout = time.RFC3339

func printAuthenticated(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "Authenticated to %s bucket %q\n", cfg.Drive.Provider, cfg.Drive.Bucket)
}

func printReport(w io.Writer, rep *models.Report) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	printSide(tw, rep.Remote, rep.Plan.Remote, rep.Plan.HasRemote)
	printSide(tw, rep.Local, rep.Plan.Local, rep.Plan.HasLocal)
	fmt.Fprintf(tw, "direction:\t%s\n", rep.Plan.Direction)

	if rep.Outcome != models.OutcomePlanned {
		fmt.Fprintf(tw, "outcome:\t%s\n", rep.Outcome)
		if rep.Outcome == models.OutcomeTransferred {
			fmt.Fprintf(tw, "transferred:\t%s (%d bytes)\n", rep.File, rep.Bytes)
		}
	} else if rep.DryRun && rep.File != "" {
		fmt.Fprintf(tw, "would copy:\t%s\n", rep.File)
	}

	_ = tw.Flush()
}

// printFiles lists every file of l, newest first.
func printFiles(w io.Writer, l models.Listing) {
	if len(l.Files) == 0 {
		fmt.Fprintf(w, "No %s files in %s\n", l.Location, l.Dir)
		return
	}

	fmt.Fprintf(w, "Files in %s directory %s:\n", l.Location, l.Dir)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range l.Sorted() {
		fmt.Fprintf(tw, "  %s\t%s\t%d bytes\n", f.Name, f.ModTime.UTC().Format(timeLayout), f.Size)
	}
	_ = tw.Flush()
}

func printLastRun(w io.Writer, last *models.HistoryRecord) {
	if last == nil {
		fmt.Fprintln(w, "last run: never")
		return
	}
	fmt.Fprintf(w, "last run: %s %s %s", last.StartedAt.UTC().Format(timeLayout), last.Direction, last.Outcome)
	if last.Error != "" {
		fmt.Fprintf(w, " (%s)", last.Error)
	}
	fmt.Fprintln(w)
}

func printSide(w io.Writer, l models.Listing, newest models.PasswordFile, ok bool) {
	if !ok {
		fmt.Fprintf(w, "%s newest:\t(no files in %s)\n", l.Location, l.Dir)
		return
	}
	fmt.Fprintf(w, "%s newest:\t%s\t%s\t(%d files in %s)\n",
		l.Location, newest.Name, newest.ModTime.UTC().Format(timeLayout), len(l.Files), l.Dir)
}

func printHistory(w io.Writer, recs []models.HistoryRecord) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tDIRECTION\tOUTCOME\tFILE\tBYTES\tERROR")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			r.StartedAt.UTC().Format(timeLayout), r.Direction, r.Outcome, r.File, r.Bytes, r.Error)
	}
	_ = tw.Flush()
}
