package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thatsimonsguy/vent-panel/internal/config"
	"github.com/thatsimonsguy/vent-panel/internal/pinctrl"
)

var configPath string

var pinsCmd = &cobra.Command{
	Use:   "pins",
	Short: "Compare configured panel lines against pinctrl",
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := readGPIO(configPath)
		if err != nil {
			return err
		}
		lines, err := pinctrl.Inspect(g)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), pinTable(lines))
		return nil
	},
}

func init() {
	pinsCmd.Flags().StringVar(&configPath, "config-file", "config.json", "Path to panel config file")
	rootCmd.AddCommand(pinsCmd)
}

// readGPIO takes only the gpio section; the rest of the file is not checked.
func readGPIO(path string) (config.GPIO, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return config.GPIO{}, fmt.Errorf("read config: %w", err)
	}
	var cfg config.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return config.GPIO{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg.GPIO, nil
}

func pinTable(lines []pinctrl.LineState) string {
	t := newTable("line", "gpio", "want", "mode", "pull", "level", "")
	for _, l := range lines {
		mode, pull, level := "-", "-", "-"
		if l.State != nil {
			mode, pull, level = l.State.Mode, l.State.Pull, l.State.Level
		}
		flag := ""
		if l.Mismatch() {
			flag = "!"
		}
		t.Row(l.Name, fmt.Sprint(l.Offset), l.Want, mode, pull, level, flag)
	}
	return t.String()
}
