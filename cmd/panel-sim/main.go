// Command panel-sim runs the panel logic in a terminal against a simulated
// control unit. Keys stand in for the buttons and the encoder.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/thatsimonsguy/vent-panel/internal/config"
	"github.com/thatsimonsguy/vent-panel/internal/logging"
)

func main() {
	cycle := flag.Duration("cycle", 10*time.Millisecond, "Control cycle period")
	logFile := flag.String("log-file", "panel-sim.log", "Log file")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	logging.Init(config.ParseLogLevel(*logLevel), *logFile)

	m := newModel(time.Now(), *cycle)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
