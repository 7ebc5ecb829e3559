package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/laborwatch/internal/archive"
	"github.com/pdiddy/laborwatch/internal/pipeline"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Query all sources and print the ranked research feed",
	Long: `Feed fans out to every configured source, filters and deduplicates the
results, classifies evidence tiers, links items to tracked predictions, and
prints the ranked feed. Partial source failures reduce coverage; the command
only fails when every source is down.`,
	RunE: runFeed,
}

func init() {
	feedCmd.Flags().Int("min-score", -1, "relevance floor (-1 = configured default)")
	feedCmd.Flags().Int("max", 0, "maximum results (0 = configured default)")
	feedCmd.Flags().String("tiers", "", "comma-separated evidence tiers to keep (e.g. 1,2)")
	feedCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(feedCmd)
}

func runFeed(cmd *cobra.Command, args []string) error {
	preds, _, authors, err := loadRegistry()
	if err != nil {
		return err
	}

	cfg := discoveryConfig()
	pipe := pipeline.New(cfg, buildSources(cfg, authors), preds, os.Stderr)

	opts, err := feedOptsFromFlags(cmd)
	if err != nil {
		return err
	}

	res, err := pipe.Run(context.Background(), opts)
	if err != nil {
		return err
	}

	if acfg := archiveConfig(); acfg.Enabled {
		store, err := archive.NewStore(acfg)
		if err != nil {
			return err
		}
		defer store.Close()
		if _, err := store.RecordRun(context.Background(), "feed", res.Items, res.TotalDiscovered, res.TotalAfterDedup); err != nil {
			fmt.Fprintf(os.Stderr, "warning: recording feed run: %v\n", err)
		}
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	if len(res.Items) == 0 {
		fmt.Println("No results.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-4s  %-60s  %-18s  %6s  %5s\n",
		"Rank", "Tier", "Title", "Source", "Cites", "Score")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for i, it := range res.Items {
		title := it.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-4d  %-60s  %-18s  %6d  %5d\n",
			i+1, it.ClassifiedTier, title, it.SourceKind, it.CitationCount, it.CompositeScore)
	}
	fmt.Fprintf(os.Stdout, "\n%d results (%d discovered, %d after dedup, %d sources queried)\n",
		len(res.Items), res.TotalDiscovered, res.TotalAfterDedup, res.SourcesQueried)
	for _, e := range res.SourceErrors {
		fmt.Fprintf(os.Stderr, "source error: %s\n", e)
	}
	return nil
}

func feedOptsFromFlags(cmd *cobra.Command) (pipeline.FeedOptions, error) {
	minScore, _ := cmd.Flags().GetInt("min-score")
	maxResults, _ := cmd.Flags().GetInt("max")
	tiersFlag, _ := cmd.Flags().GetString("tiers")

	opts := pipeline.FeedOptions{
		MinRelevanceScore: minScore,
		MaxResults:        maxResults,
	}
	if tiersFlag != "" {
		for _, part := range strings.Split(tiersFlag, ",") {
			var n int
			if _, err := fmt.Sscanf(strings.TrimSpace(part), "%d", &n); err != nil || n < 1 || n > 4 {
				return opts, fmt.Errorf("invalid tier %q: tiers are 1-4", part)
			}
			opts.Tiers = append(opts.Tiers, n)
		}
	}
	return opts, nil
}
