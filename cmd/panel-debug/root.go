package main

import (
	"github.com/spf13/cobra"
)

var (
	dbPath    string
	statePath string
)

var rootCmd = &cobra.Command{
	Use:   "panel-debug",
	Short: "Ventilator panel debug tool",
	Long: `panel-debug reads the panel's journal and last-state file, decodes bus
frames by hand, and can poll a panel over its serial bus from the bench.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "data/journal.db", "Path to the journal database")
	rootCmd.PersistentFlags().StringVar(&statePath, "state-file", "data/panel-state.json", "Path to the last-state file")
}
