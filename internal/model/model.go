package model

// Parameter identifies one of the five operator-set clinical parameters. The
// ordinal doubles as the display and LED position next to it.
type Parameter int

const (
	TidalVolume Parameter = iota
	Frequency
	IERatio
	MaxPressure
	TriggerPressure
)

const NumParameters = 5

var parameterNames = [NumParameters]string{"tidal_volume", "frequency", "ie_ratio", "max_pressure", "trigger_pressure"}

func (p Parameter) String() string {
	if p < 0 || int(p) >= NumParameters {
		return "unknown"
	}
	return parameterNames[p]
}

// IsFloatDisplay reports whether the parameter renders with an implied decimal.
func (p Parameter) IsFloatDisplay() bool {
	return p == IERatio
}

// Parameters lists every parameter in display order.
func Parameters() [NumParameters]Parameter {
	return [NumParameters]Parameter{TidalVolume, Frequency, IERatio, MaxPressure, TriggerPressure}
}

// Family selects the range and preset column.
type Family int

const (
	VolumeFamily Family = iota
	PressureFamily
)

func (f Family) String() string {
	if f == PressureFamily {
		return "pc"
	}
	return "vc"
}

type InterfaceState int

const (
	Locked InterfaceState = iota
	Selecting
	Setting
)

func (s InterfaceState) String() string {
	switch s {
	case Locked:
		return "locked"
	case Selecting:
		return "selecting"
	case Setting:
		return "setting"
	}
	return "unknown"
}

// OperatingState ordinals are part of the bus frame.
type OperatingState int

const (
	Run OperatingState = iota
	Pause
)

func (s OperatingState) String() string {
	if s == Run {
		return "run"
	}
	return "pause"
}

// VentilationState ordinals are part of the bus frame. A Setup state is named
// after the family it is setting up.
type VentilationState int

const (
	VolumeControl VentilationState = iota
	VolumeControlSetup
	PressureControl
	PressureControlSetup
)

func (s VentilationState) String() string {
	switch s {
	case VolumeControl:
		return "volume_control"
	case VolumeControlSetup:
		return "volume_control_setup"
	case PressureControl:
		return "pressure_control"
	case PressureControlSetup:
		return "pressure_control_setup"
	}
	return "unknown"
}

// Family maps VC and VC setup to the volume column, PC and PC setup to pressure.
func (s VentilationState) Family() Family {
	return Family(int(s) / 2)
}

func (s VentilationState) IsSetup() bool {
	return s == VolumeControlSetup || s == PressureControlSetup
}

type PresetLevel int

const (
	PresetLow PresetLevel = iota
	PresetMedium
	PresetHigh
	PresetNone
)

func (l PresetLevel) String() string {
	switch l {
	case PresetLow:
		return "low"
	case PresetMedium:
		return "medium"
	case PresetHigh:
		return "high"
	}
	return "none"
}

type Button int

const (
	StartButton Button = iota
	ModeButton
	DefaultButton
	MuteButton
	SelectButton
)

const NumButtons = 5

func (b Button) String() string {
	switch b {
	case StartButton:
		return "start"
	case ModeButton:
		return "mode"
	case DefaultButton:
		return "default"
	case MuteButton:
		return "mute"
	case SelectButton:
		return "select"
	}
	return "unknown"
}

// Display positions. The first five mirror Parameter.
type Display int

const (
	SetTidalVolumeDisplay Display = iota
	SetFrequencyDisplay
	SetIERatioDisplay
	SetMaxPressureDisplay
	SetTriggerPressureDisplay
	AchievedVolumeDisplay
	AchievedPIPDisplay
	AchievedPEEPDisplay
)

const NumDisplays = 8

// ModeLED identifies the mode indicator bank.
type ModeLED int

const (
	RunLED ModeLED = iota
	PauseLED
	VCLED
	PCLED
	PresetHighLED
	PresetMediumLED
	PresetLowLED
)

const NumModeLEDs = 7

func (l ModeLED) String() string {
	switch l {
	case RunLED:
		return "run"
	case PauseLED:
		return "pause"
	case VCLED:
		return "vc"
	case PCLED:
		return "pc"
	case PresetHighLED:
		return "preset_high"
	case PresetMediumLED:
		return "preset_medium"
	case PresetLowLED:
		return "preset_low"
	}
	return "unknown"
}

// Alarm indices follow the telemetry flag order.
type Alarm int

const (
	HighPressureAlarm Alarm = iota
	LowPressureAlarm
	LowMinuteVolumeAlarm
	ElectronicsAlarm
	AlarmMuted
)

const NumAlarms = 5

func (a Alarm) String() string {
	switch a {
	case HighPressureAlarm:
		return "high_pressure"
	case LowPressureAlarm:
		return "low_pressure"
	case LowMinuteVolumeAlarm:
		return "low_minute_volume"
	case ElectronicsAlarm:
		return "electronics"
	case AlarmMuted:
		return "muted"
	}
	return "unknown"
}
