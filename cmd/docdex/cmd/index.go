package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/mhollis/docdex/internal/output"
)

func newIndexCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "index [path]",
		Short: "Build the index and report what was indexed",
		Long: `Scan a directory tree for Markdown documents, split them into
heading-delimited sections, and build the inverted index.

Examples:
  docdex index
  docdex index ./docs
  docdex index ./docs --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := rootArg(args)

			_, _, snap, report, err := buildIndex(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer func() { _ = snap.Index.Close() }()

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			out := output.New(cmd.OutOrStdout())
			out.Successf("indexed %d documents (%d sections) in %s",
				report.Documents, report.Sections, report.Duration.Round(durationPrecision))
			for _, skipped := range report.Skipped {
				out.Warningf("skipped %s: %s", skipped.Path, skipped.Reason)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the index report as JSON")

	return cmd
}
