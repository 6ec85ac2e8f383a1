package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/contracts-tracker/internal/contracts"
	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
	"github.com/joseph-ayodele/contracts-tracker/internal/ingest"
)

func newIngestCmd(a *app) *cobra.Command {
	var (
		user          string
		workers       int
		watch         bool
		includeHidden bool
		debounce      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "ingest <dir>",
		Short: "Extract and save every PDF under a directory",
		Long: `Walks <dir>, runs each PDF through upload, extraction and the completeness
gate, and saves the contracts that pass. With --watch, keeps running and
ingests files as they appear.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(user)
			if err != nil {
				return errUserRequired
			}
			if workers <= 0 {
				workers = a.cfg.Ingest.Workers
			}
			svc, err := a.contractService(cmd.Context())
			if err != nil {
				return err
			}
			ing := ingest.NewFSIngestor(svc, a.logger, workers)
			out := cmd.OutOrStdout()

			if watch {
				err := ing.Watch(cmd.Context(), userID, ingest.WatchConfig{
					Roots:       []string{args[0]},
					InitialScan: true,
					SkipHidden:  !includeHidden,
					Debounce:    debounce,
				}, func(r ingest.JobResult) {
					fmt.Fprintf(out, "%s\t%s\t%s\n", r.Job.Status, r.Job.SourcePath, jobNote(r.Job))
				})
				if cmd.Context().Err() != nil {
					return nil
				}
				return err
			}

			jobs, stats, err := ing.IngestDirectory(cmd.Context(), userID, args[0], !includeHidden)
			printJobs(out, jobs)
			fmt.Fprintf(out, "\nmatched=%d saved=%d rejected=%d duplicates=%d failed=%d\n",
				stats.Matched, stats.Saved, stats.Rejected, stats.Duplicates, stats.Failed)
			return err
		},
	}
	cmd.Flags().StringVar(&user, "user", contracts.DefaultUserID, "owner of the saved contracts")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent extractions (default INGEST_WORKERS)")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and ingest new files")
	cmd.Flags().BoolVar(&includeHidden, "include-hidden", false, "descend into hidden files and directories")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "coalesce file events in watch mode")
	return cmd
}

func printJobs(w io.Writer, jobs []entity.IngestJob) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tFILE\tDETAIL")
	for _, j := range jobs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", j.Status, j.SourcePath, jobNote(j))
	}
	_ = tw.Flush()
}

func jobNote(j entity.IngestJob) string {
	if j.ContractID != nil {
		return j.ContractID.String()
	}
	return j.ErrorMessage
}
