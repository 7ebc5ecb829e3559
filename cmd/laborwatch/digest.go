// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/laborwatch/internal/archive"
	"github.com/pdiddy/laborwatch/internal/digest"
	"github.com/pdiddy/laborwatch/internal/pipeline"
	"github.com/pdiddy/laborwatch/internal/registry"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Run one weekly digest batch and write a snapshot",
	Long: `Digest runs the discovery pipeline over the lookback window with a
near-zero relevance floor, keeps the top papers by composite score, buckets
them by prediction category, and writes an immutable dated snapshot plus the
latest pointer. With an Anthropic API key configured, an extraction pass
suggests numeric data points from prediction-linked papers.`,
	RunE: runDigest,
}

func init() {
	digestCmd.Flags().Bool("no-extract", false, "skip the AI extraction pass even when a key is configured")

	rootCmd.AddCommand(digestCmd)
}

func runDigest(cmd *cobra.Command, args []string) error {
	preds, cats, authors, err := loadRegistry()
	if err != nil {
		return err
	}

	cfg := discoveryConfig()
	dcfg := digestConfig()
	pipe := pipeline.New(cfg, buildSources(cfg, authors), preds, os.Stderr)

	var backend digest.AIBackend
	noExtract, _ := cmd.Flags().GetBool("no-extract")
	if !noExtract {
		// A nil backend disables the pass; NewAnthropicBackend returns nil
		// without a key. The interface variable must stay nil in that case.
		if b := digest.NewAnthropicBackend(dcfg.AIConfig); b != nil {
			backend = b
		}
	}

	asm := digest.New(pipe, dcfg, cats, registry.SlugSet(preds), backend, os.Stderr)
	d, err := asm.Run(context.Background())
	if err != nil {
		return err
	}

	path, err := digest.WriteSnapshot(dcfg.DigestDir, d)
	if err != nil {
		return err
	}

	if acfg := archiveConfig(); acfg.Enabled {
		store, err := archive.NewStore(acfg)
		if err != nil {
			return err
		}
		defer store.Close()
		if _, err := store.RecordRun(context.Background(), "digest", d.Papers, d.TotalDiscovered, d.TotalAfterDedup); err != nil {
			fmt.Fprintf(os.Stderr, "warning: recording digest run: %v\n", err)
		}
	}

	fmt.Printf("digest %s: %d papers (%d discovered, %d after dedup)\n",
		d.Week, len(d.Papers), d.TotalDiscovered, d.TotalAfterDedup)
	if len(d.SuggestedDataPoints) > 0 {
		fmt.Printf("%d suggested data points for curator review\n", len(d.SuggestedDataPoints))
	}
	fmt.Printf("written to %s\n", path)
	return nil
}
