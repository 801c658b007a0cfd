package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thatsimonsguy/vent-panel/internal/model"
	"github.com/thatsimonsguy/vent-panel/internal/protocol"
)

var decodeFrameCmd = &cobra.Command{
	Use:   "decode-frame HEX",
	Short: "Decode an 8-byte status frame",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := protocol.ParseFrame(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), describeFrame(f))
		return nil
	},
}

var decodeTelemetryCmd = &cobra.Command{
	Use:   "decode-telemetry HEX",
	Short: "Decode a telemetry buffer (short buffers are zero-padded)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := hex.DecodeString(args[0])
		if err != nil {
			return fmt.Errorf("decode telemetry hex: %w", err)
		}
		if len(b) > protocol.TelemetrySize {
			return fmt.Errorf("telemetry is %d bytes, at most %d allowed", len(b), protocol.TelemetrySize)
		}
		fmt.Fprint(cmd.OutOrStdout(), describeTelemetry(protocol.ParseTelemetry(b)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decodeFrameCmd, decodeTelemetryCmd)
}

func describeFrame(f protocol.Frame) string {
	s := protocol.DecodeStatus(f)
	var b strings.Builder
	fmt.Fprintf(&b, "operating:    %s\n", s.Operating)
	fmt.Fprintf(&b, "ventilation:  %s\n", s.Ventilation)
	fmt.Fprintf(&b, "mute:         %t\n", s.Mute)
	for _, p := range model.Parameters() {
		fmt.Fprintf(&b, "%-13s %d\n", p.String()+":", s.Values[p])
	}
	return b.String()
}

func describeTelemetry(t protocol.Telemetry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "volume:       %d ml\n", t.AchievedVolume())
	fmt.Fprintf(&b, "peak:         %s cmH2O\n", tenths(t.PeakPressure()))
	fmt.Fprintf(&b, "peep:         %s cmH2O\n", tenths(t.PEEP()))

	var active []string
	for i, on := range t.Alarms() {
		if on {
			active = append(active, model.Alarm(i).String())
		}
	}
	if len(active) == 0 {
		active = []string{"none"}
	}
	fmt.Fprintf(&b, "alarms:       %s\n", strings.Join(active, ", "))
	return b.String()
}

func tenths(v int) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%d", sign, v/10, v%10)
}
