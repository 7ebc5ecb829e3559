package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/laborwatch/internal/archive"
	"github.com/pdiddy/laborwatch/internal/digest"
	"github.com/pdiddy/laborwatch/internal/pipeline"
	"github.com/pdiddy/laborwatch/internal/registry"
	"github.com/pdiddy/laborwatch/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the research feed and digest snapshots over HTTP",
	Long: `Serve exposes the live feed, digest snapshots, the prediction registry,
and run history as a JSON API. With server.digest_cron configured, digest
batches run on schedule in the background.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8090)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	preds, cats, authors, err := loadRegistry()
	if err != nil {
		return err
	}

	cfg := discoveryConfig()
	dcfg := digestConfig()
	scfg := serverConfig()
	pipe := pipeline.New(cfg, buildSources(cfg, authors), preds, os.Stderr)

	var backend digest.AIBackend
	if b := digest.NewAnthropicBackend(dcfg.AIConfig); b != nil {
		backend = b
	}
	asm := digest.New(pipe, dcfg, cats, registry.SlugSet(preds), backend, os.Stderr)

	var store *archive.Store
	if acfg := archiveConfig(); acfg.Enabled {
		store, err = archive.NewStore(acfg)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	sched, err := server.NewScheduler(asm, dcfg.DigestDir, scfg.DigestCron, os.Stderr)
	if err != nil {
		return err
	}
	if sched != nil {
		sched.Start()
		defer sched.Stop()
		fmt.Fprintf(os.Stderr, "digest scheduled: %s\n", scfg.DigestCron)
	}

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = scfg.Addr
	}

	srv := server.New(pipe, asm, preds, dcfg.DigestDir, store, os.Stderr)
	return srv.Start(addr)
}
