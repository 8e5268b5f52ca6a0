package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pftabler/internal/config"
	"pftabler/internal/firewall/pfctl"
)

var tablesAll bool

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "list the pf tables pftabler would maintain",
	Run: func(_ *cobra.Command, _ []string) {
		cfg, err := config.LoadFile(configPath)
		if err != nil {
			log.Errorf("load config %s: %v", configPath, err)
			os.Exit(1)
		}
		tables, err := pfctl.New(cfg.Pfctl).Tables()
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}
		for _, t := range tables {
			if !tablesAll && !t.Persist() {
				continue
			}
			fmt.Printf("%s\t%s\n", t.Flags, t.Name)
		}
	},
}

func init() {
	tablesCmd.Flags().BoolVar(&tablesAll, "all", false, "include non-persistent tables")
}
