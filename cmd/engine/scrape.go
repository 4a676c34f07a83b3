package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"internhunt-engine/internal/ingest"
)

var scrapeJSON bool

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Run one ingestion pass over every configured source",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		rep, err := a.orch.Run(cmd.Context())
		if err != nil {
			return err
		}
		if scrapeJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}
		return printReport(cmd.OutOrStdout(), rep)
	},
}

func init() {
	scrapeCmd.Flags().BoolVar(&scrapeJSON, "json", false, "print the full report, raw documents included")
}

func printReport(w io.Writer, rep ingest.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tKIND\tPHASE\tPARSED\tINSERTED\tEXISTING\tDUPES\tERROR")
	for _, s := range rep.Sources {
		fmt.Fprintf(tw, "%s/%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			s.Owner, s.Repo, s.Kind, s.Phase, len(s.Parsed), s.Inserted, s.Existing, s.BatchDuplicates, s.Error)
	}
	fmt.Fprintf(tw, "\n%s: %d new postings in %s\n", rep.Result(), rep.Inserted(), rep.FinishedAt.Sub(rep.StartedAt).Round(time.Millisecond))
	return tw.Flush()
}
