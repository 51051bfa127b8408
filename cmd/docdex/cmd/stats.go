package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/mhollis/docdex/internal/output"
	"github.com/mhollis/docdex/internal/search"
)

func newStatsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats [path]",
		Short: "Show index statistics",
		Long: `Build the index and print document, section, and term counts.

Examples:
  docdex stats ./docs
  docdex stats ./docs --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := rootArg(args)

			_, _, snap, _, err := buildIndex(cmd.Context(), root)
			if err != nil {
				return err
			}

			engine := search.NewEngine(nil)
			engine.Install(snap)
			defer func() { _ = engine.Close() }()
			stats := engine.Stats()

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}

			out := output.New(cmd.OutOrStdout())
			out.Heading("Index statistics")
			out.Printf("  documents: %d\n", stats.Documents)
			out.Printf("  sections:  %d\n", stats.Sections)
			out.Printf("  terms:     %d\n", stats.Terms)
			out.Printf("  avg section length: %.1f terms\n", stats.Index.AvgSectionLength)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output statistics as JSON")

	return cmd
}
