package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thatsimonsguy/vent-panel/internal/store"
)

var lastStateCmd = &cobra.Command{
	Use:   "last-state",
	Short: "Show the panel state saved at the last shutdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := store.New(statePath).Load()
		if err != nil {
			return fmt.Errorf("load last state: %w", err)
		}
		out, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lastStateCmd)
}
