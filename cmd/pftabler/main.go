package main

import (
	"fmt"
	"os"

	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = ""
)

var log = logging.MustGetLogger("main")

var configPath string

var rootCmd = &cobra.Command{
	Use:   "pftabler",
	Short: "scheduled maintenance for pf address tables",
	Long: `pftabler consolidates the cron housekeeping of the persistent pf
tables into one tool and one email report: periodic per-table backups
and expiration of entries older than their per-table threshold.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version and build time",
	Run: func(cmd *cobra.Command, _ []string) {
		bt := BuildTime
		if bt == "" {
			bt = "unknown"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "pftabler %s (built %s)\n", Version, bt)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "/etc/pftabler.yaml", "config file path")
	rootCmd.AddCommand(backupCmd, expireCmd, tablesCmd, versionCmd)
}

func setupLogging() {
	formatter := logging.MustStringFormatter("%{module} %{level:.1s} > %{message}")
	logging.SetFormatter(formatter)
	if os.Getenv("PFTABLER_DEBUG") == "1" {
		logging.SetLevel(logging.DEBUG, "")
	} else {
		logging.SetLevel(logging.INFO, "")
	}
}

func main() {
	setupLogging()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
