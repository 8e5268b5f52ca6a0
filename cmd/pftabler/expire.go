package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"pftabler/internal/config"
	"pftabler/internal/enrich"
	"pftabler/internal/firewall/pfctl"
	"pftabler/internal/report"
	"pftabler/internal/run"
)

var (
	expireDryRun bool
	expireNative bool
)

var expireCmd = &cobra.Command{
	Use:   "expire",
	Short: "remove aged entries from the persistent pf tables",
	Long: `Classifies each persistent table's entries against its expiration
threshold (per-table override or the default) and deletes the entries
that are strictly older, then prints the statistics report.`,
	Run: func(_ *cobra.Command, _ []string) {
		cfg, err := config.LoadFile(configPath)
		if err != nil {
			log.Errorf("load config %s: %v", configPath, err)
			os.Exit(1)
		}
		opts := run.Options{
			Backend: pfctl.New(cfg.Pfctl),
			Policy:  cfg.Policy(),
			DryRun:  expireDryRun,
			Native:  expireNative,
		}
		if cfg.Enrich.Enabled {
			e := enrich.New(filepath.Dir(configPath), cfg.Directory)
			defer e.Close()
			opts.Enricher = e
		}
		rep := &report.Report{}
		run.Expire(opts, time.Now(), rep)
		rep.WriteExpire(os.Stdout)
		if rep.Failed() {
			os.Exit(1)
		}
	},
}

func init() {
	expireCmd.Flags().BoolVar(&expireDryRun, "dry-run", false, "classify and report without deleting")
	expireCmd.Flags().BoolVar(&expireNative, "native", false, "use pfctl -T expire instead of classify+delete")
}
