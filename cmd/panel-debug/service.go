package main

import (
	"github.com/spf13/cobra"

	"github.com/thatsimonsguy/vent-panel/system/startup"
)

var (
	unitPath string
	unit     startup.ServiceUnit
)

var installServiceCmd = &cobra.Command{
	Use:   "install-service",
	Short: "Write the systemd unit that starts the panel at boot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return startup.InstallService(unitPath, unit)
	},
}

func init() {
	f := installServiceCmd.Flags()
	f.StringVar(&unitPath, "unit", "/etc/systemd/system/vent-panel.service", "Unit file to write")
	f.StringVar(&unit.User, "user", "panel", "User the service runs as")
	f.StringVar(&unit.WorkDir, "workdir", "/opt/vent-panel", "Working directory")
	f.StringVar(&unit.Binary, "binary", "/opt/vent-panel/vent-panel", "Panel binary")
	f.StringVar(&unit.ConfigFile, "config-file", "/etc/vent-panel/config.json", "Panel config file")
	rootCmd.AddCommand(installServiceCmd)
}
