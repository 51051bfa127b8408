package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhollis/docdex/internal/output"
	"github.com/mhollis/docdex/internal/search"
)

type queryOptions struct {
	root   string
	limit  int
	format string
}

func newQueryCmd() *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query <terms...>",
		Short: "Search indexed sections",
		Long: `Build the index and search it. Results match sections containing
any query term, ranked by total occurrence count.

Examples:
  docdex query "S3 buckets"
  docdex query replication --root ./docs --limit 5
  docdex query deploys --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			cfg, _, snap, _, err := buildIndex(cmd.Context(), opts.root)
			if err != nil {
				return err
			}

			engine := search.NewEngine(nil)
			engine.Install(snap)
			defer func() { _ = engine.Close() }()

			limit := opts.limit
			if limit <= 0 {
				limit = cfg.Search.MaxResults
			}
			results, err := engine.Search(cmd.Context(), query, search.Options{
				MaxResults:   limit,
				ExcerptLines: cfg.Search.ExcerptLines,
			})
			if err != nil {
				return err
			}

			switch opts.format {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			case "text":
				out := output.New(cmd.OutOrStdout())
				if len(results) == 0 {
					out.Dim("no results")
					return nil
				}
				for i, r := range results {
					out.Result(i+1, r.Heading, r.DocPath, r.Score, r.Excerpt)
				}
				return nil
			default:
				return fmt.Errorf("unknown format %q (valid options: text, json)", opts.format)
			}
		},
	}

	cmd.Flags().StringVar(&opts.root, "root", ".", "Directory to index and search")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of results (default from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}
