package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/thatsimonsguy/vent-panel/internal/model"
	"github.com/thatsimonsguy/vent-panel/internal/params"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Print the parameter range and preset tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), parameterTable())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}

func parameterTable() string {
	t := newTable("family", "parameter", "initial", "step", "min", "max", "low", "medium", "high")
	for _, f := range []model.Family{model.VolumeFamily, model.PressureFamily} {
		for _, p := range model.Parameters() {
			r := params.RangeFor(p, f)
			t.Row(
				f.String(),
				p.String(),
				strconv.Itoa(r.Initial),
				strconv.Itoa(r.Increment),
				strconv.Itoa(r.Minimum),
				strconv.Itoa(r.Maximum),
				strconv.Itoa(params.PresetValue(p, f, model.PresetLow)),
				strconv.Itoa(params.PresetValue(p, f, model.PresetMedium)),
				strconv.Itoa(params.PresetValue(p, f, model.PresetHigh)),
			)
		}
	}
	return t.String()
}
