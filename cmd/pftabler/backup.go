package main

import (
	"os"

	"github.com/spf13/cobra"

	"pftabler/internal/backup"
	"pftabler/internal/config"
	"pftabler/internal/firewall/pfctl"
	"pftabler/internal/report"
	"pftabler/internal/run"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "snapshot each persistent pf table to a per-table file",
	Long: `Dumps every persistent pf table to <directory>/<table>.txt. The
directory (default /var/pf) must exist. A clean run prints nothing,
so cron only mails when something went wrong.`,
	Run: func(_ *cobra.Command, _ []string) {
		cfg, err := config.LoadFile(configPath)
		if err != nil {
			log.Errorf("load config %s: %v", configPath, err)
			os.Exit(1)
		}
		opts := run.Options{
			Backend: pfctl.New(cfg.Pfctl),
			Backup:  backup.Writer{Dir: cfg.Directory},
		}
		rep := &report.Report{}
		run.Backup(opts, rep)
		rep.WriteBackup(os.Stdout)
		if rep.Failed() {
			os.Exit(1)
		}
	},
}
