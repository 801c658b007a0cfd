package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/thatsimonsguy/vent-panel/internal/protocol"
	"github.com/thatsimonsguy/vent-panel/internal/transport"
)

var (
	portName string
	baudRate int
	interval time.Duration
	count    int
)

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Act as the control unit and request status frames from a panel",
	RunE: func(cmd *cobra.Command, args []string) error {
		if portName == "" {
			return fmt.Errorf("--port is required")
		}
		port, err := transport.OpenSerial(portName, baudRate, 200*time.Millisecond)
		if err != nil {
			return err
		}
		defer port.Close()

		for i := 0; count == 0 || i < count; i++ {
			f, err := requestFrame(port)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", time.Now().Format("15:04:05.000"), f.Hex())
			if f.Muted() {
				fmt.Fprintln(cmd.OutOrStdout(), "  mute requested")
			}
			time.Sleep(interval)
		}
		return nil
	},
}

func init() {
	f := pollCmd.Flags()
	f.StringVarP(&portName, "port", "p", "", "Serial port device")
	f.IntVarP(&baudRate, "baud", "b", 115200, "Baud rate")
	f.DurationVar(&interval, "interval", 500*time.Millisecond, "Delay between requests")
	f.IntVarP(&count, "count", "c", 0, "Number of requests (0 runs until interrupted)")
	rootCmd.AddCommand(pollCmd)
}

// requestFrame sends one data request and reads the reply.
func requestFrame(rw io.ReadWriter) (protocol.Frame, error) {
	var f protocol.Frame
	if _, err := rw.Write([]byte{transport.TagRequest}); err != nil {
		return f, fmt.Errorf("write request: %w", err)
	}
	got := 0
	for got < len(f) {
		n, err := rw.Read(f[got:])
		if err != nil {
			return f, fmt.Errorf("read frame: %w", err)
		}
		if n == 0 {
			return f, fmt.Errorf("read frame: timeout after %d bytes", got)
		}
		got += n
	}
	return f, nil
}
