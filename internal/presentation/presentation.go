// Package presentation projects the panel state onto display and LED commands.
// It holds no state of its own.
package presentation

import (
	"time"

	"github.com/thatsimonsguy/vent-panel/internal/display"
	"github.com/thatsimonsguy/vent-panel/internal/model"
	"github.com/thatsimonsguy/vent-panel/internal/params"
	"github.com/thatsimonsguy/vent-panel/internal/protocol"
	"github.com/thatsimonsguy/vent-panel/internal/state"
)

const BlinkPeriod = 255

// Blink duties, in milliseconds of each period.
const (
	SettingBlinkDuty uint8 = 120
	SetupBlinkDuty   uint8 = 100
	AlarmBlinkDuty   uint8 = 120
)

type LEDMode int

const (
	LEDOff LEDMode = iota
	LEDOn
	LEDBlink
)

type LEDCommand struct {
	Mode LEDMode
	Duty uint8
}

var (
	Off = LEDCommand{Mode: LEDOff}
	On  = LEDCommand{Mode: LEDOn}
)

func Blink(duty uint8) LEDCommand {
	return LEDCommand{Mode: LEDBlink, Duty: duty}
}

// Lit resolves the command at a point in time. A blinking LED is on for the
// first Duty milliseconds of every period.
func (c LEDCommand) Lit(elapsed time.Duration) bool {
	switch c.Mode {
	case LEDOn:
		return true
	case LEDBlink:
		return elapsed.Milliseconds()%BlinkPeriod < int64(c.Duty)
	}
	return false
}

// Visible is true for on and blinking.
func (c LEDCommand) Visible() bool {
	return c.Mode != LEDOff
}

type DisplayKind int

const (
	DisplayBlank DisplayKind = iota
	DisplayNumber
	DisplayRaw
)

type DisplayCommand struct {
	Kind     DisplayKind
	Value    int
	Decimal  bool
	Segments display.Segments
}

func Number(v int, decimal bool) DisplayCommand {
	return DisplayCommand{Kind: DisplayNumber, Value: v, Decimal: decimal}
}

func Raw(s display.Segments) DisplayCommand {
	return DisplayCommand{Kind: DisplayRaw, Segments: s}
}

// Encoded is the segment pattern the command shows.
func (c DisplayCommand) Encoded() display.Segments {
	switch c.Kind {
	case DisplayNumber:
		return display.EncodeNumber(c.Value, c.Decimal)
	case DisplayRaw:
		return c.Segments
	}
	return display.Blank
}

// Frame is one cycle's worth of output commands.
type Frame struct {
	Displays      [model.NumDisplays]DisplayCommand
	ParameterLEDs [model.NumParameters]LEDCommand
	ModeLEDs      [model.NumModeLEDs]LEDCommand
	AlarmLEDs     [model.NumAlarms]LEDCommand
}

// View is the read-only input to Render.
type View struct {
	Interface   model.InterfaceState
	Operating   model.OperatingState
	Ventilation model.VentilationState
	Preset      model.PresetLevel
	Values      [model.NumParameters]params.Value
	Selected    model.Parameter
	Cursor      model.Parameter
	Telemetry   protocol.Telemetry
}

func ViewOf(p *state.Panel, t protocol.Telemetry) View {
	return View{
		Interface:   p.Interface.Current(),
		Operating:   p.Operating.Current(),
		Ventilation: p.Ventilation.Current(),
		Preset:      p.Preset.Current(),
		Values:      p.Params.Values,
		Selected:    p.Params.SelectedIndex,
		Cursor:      p.Params.TargetIndex,
		Telemetry:   t,
	}
}

func Render(v View) Frame {
	var f Frame
	renderParameters(v, &f)
	renderAchieved(v, &f)
	renderParameterLEDs(v, &f)
	renderModeLEDs(v, &f)
	renderAlarms(v, &f)
	return f
}

// ShownValue is the value a parameter display carries: the target while it is
// being set, otherwise the confirmed value.
func ShownValue(v View, p model.Parameter) int {
	if v.Interface == model.Setting && v.Selected == p {
		return v.Values[p].Target
	}
	return v.Values[p].Set
}

func renderParameters(v View, f *Frame) {
	family := v.Ventilation.Family()
	for _, p := range model.Parameters() {
		value := ShownValue(v, p)
		cmd := Number(value, p.IsFloatDisplay())
		switch {
		case p == model.TidalVolume && family == model.PressureFamily:
			cmd = Raw(display.Dashes)
		case p == model.TriggerPressure && value == 0:
			cmd = Raw(display.Off)
		}
		f.Displays[p] = cmd
	}
}

func renderAchieved(v View, f *Frame) {
	f.Displays[model.AchievedVolumeDisplay] = Number(v.Telemetry.AchievedVolume(), false)
	f.Displays[model.AchievedPIPDisplay] = Number(v.Telemetry.PeakPressure(), true)
	f.Displays[model.AchievedPEEPDisplay] = Number(v.Telemetry.PEEP(), true)
}

func renderParameterLEDs(v View, f *Frame) {
	switch v.Interface {
	case model.Selecting:
		f.ParameterLEDs[v.Cursor] = On
	case model.Setting:
		f.ParameterLEDs[v.Selected] = Blink(SettingBlinkDuty)
	}
}

func renderModeLEDs(v View, f *Frame) {
	if v.Operating == model.Run {
		f.ModeLEDs[model.RunLED] = On
	} else {
		f.ModeLEDs[model.PauseLED] = On
	}

	lit := model.VCLED
	if v.Ventilation.Family() == model.PressureFamily {
		lit = model.PCLED
	}
	if v.Ventilation.IsSetup() {
		f.ModeLEDs[lit] = Blink(SetupBlinkDuty)
	} else {
		f.ModeLEDs[lit] = On
	}

	switch v.Preset {
	case model.PresetHigh:
		f.ModeLEDs[model.PresetHighLED] = On
	case model.PresetMedium:
		f.ModeLEDs[model.PresetMediumLED] = On
	case model.PresetLow:
		f.ModeLEDs[model.PresetLowLED] = On
	}
}

// renderAlarms lights active alarms steadily once the control unit reports
// them muted, and blinks them otherwise.
func renderAlarms(v View, f *Frame) {
	alarms := v.Telemetry.Alarms()
	muted := alarms[model.AlarmMuted]
	for i, active := range alarms {
		switch {
		case !active:
			f.AlarmLEDs[i] = Off
		case muted:
			f.AlarmLEDs[i] = On
		default:
			f.AlarmLEDs[i] = Blink(AlarmBlinkDuty)
		}
	}
}
