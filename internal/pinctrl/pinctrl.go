// Package pinctrl reads the Raspberry Pi's view of the panel's lines through
// the pinctrl tool. It is a bench aid; the panel itself uses the GPIO
// character device.
package pinctrl

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/thatsimonsguy/vent-panel/internal/config"
)

type PinState struct {
	Pin     int
	Mode    string // "ip", "op", "no"
	Pull    string // "pu", "pd", "pn"
	Drive   string // "dh", "dl", ""
	Level   string // "hi", "lo", "--"
	Comment string
}

var pinLineRegex = regexp.MustCompile(`^\s*(\d+):\s+(\S+)\s+(.*?)\s+\|\s+(\S+)\s+//\s+(.*GPIO(\d+).*)$`)

// Run executes pinctrl. Tests replace it.
var Run = func(args ...string) ([]byte, error) {
	return exec.Command("pinctrl", args...).Output()
}

// Parse reads `pinctrl get` output keyed by GPIO number. Lines it does not
// recognise are skipped.
func Parse(r io.Reader) (map[int]PinState, error) {
	result := make(map[int]PinState)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		matches := pinLineRegex.FindStringSubmatch(scanner.Text())
		if len(matches) != 7 {
			continue
		}

		pin, _ := strconv.Atoi(matches[1])
		state := PinState{
			Pin:     pin,
			Mode:    matches[2],
			Level:   matches[4],
			Comment: matches[5],
		}
		for _, opt := range strings.Fields(matches[3]) {
			switch {
			case state.Pull == "" && (opt == "pu" || opt == "pd" || opt == "pn"):
				state.Pull = opt
			case state.Drive == "" && (opt == "dh" || opt == "dl"):
				state.Drive = opt
			}
		}
		result[pin] = state
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan pinctrl output: %w", err)
	}
	return result, nil
}

func ReadAll() (map[int]PinState, error) {
	out, err := Run("get")
	if err != nil {
		return nil, fmt.Errorf("run pinctrl get: %w", err)
	}
	return Parse(strings.NewReader(string(out)))
}

// LineState is one configured panel line with what pinctrl reports for it.
type LineState struct {
	config.Line
	Want  string
	State *PinState
}

// Mismatch is true when the line is missing or not in the mode the panel
// drives it in.
func (l LineState) Mismatch() bool {
	return l.State == nil || l.State.Mode != l.Want
}

// Inspect pairs every configured line with its pinctrl state. Buttons and the
// encoder should be inputs; everything else is driven.
func Inspect(g config.GPIO) ([]LineState, error) {
	states, err := ReadAll()
	if err != nil {
		return nil, err
	}

	var out []LineState
	for _, l := range g.Lines() {
		ls := LineState{Line: l, Want: "op"}
		if strings.Contains(l.Name, "buttons") || strings.Contains(l.Name, "encoder") {
			ls.Want = "ip"
		}
		if st, ok := states[l.Offset]; ok {
			ls.State = &st
		}
		out = append(out, ls)
	}
	return out, nil
}
