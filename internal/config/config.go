package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/thatsimonsguy/vent-panel/internal/input"
	"github.com/thatsimonsguy/vent-panel/internal/model"
)

// GPIO holds the line offsets of every panel signal. Banks are listed in model
// order: parameters, mode LEDs, alarms, buttons, displays.
type GPIO struct {
	Chip string `json:"chip"`

	ParameterLEDs []int `json:"parameter_leds"`
	ModeLEDs      []int `json:"mode_leds"`
	AlarmLEDs     []int `json:"alarm_leds"`
	LEDActiveLow  bool  `json:"led_active_low"`

	Buttons []int `json:"buttons"`

	EncoderA *int `json:"encoder_a"`
	EncoderB *int `json:"encoder_b"`

	// displays share one clock line and each has its own data line
	DisplayClock *int  `json:"display_clock"`
	DisplayData  []int `json:"display_data"`
}

type Encoder struct {
	SelectingDirection int `json:"selecting_direction"`
	SettingDirection   int `json:"setting_direction"`
	StepsPerDetent     int `json:"steps_per_detent"`
}

type Serial struct {
	Port          string `json:"port"`
	Baud          int    `json:"baud"`
	ReadTimeoutMS int    `json:"read_timeout_ms"`
}

type MQTT struct {
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	TopicPrefix string `json:"topic_prefix"`
}

type Config struct {
	StateFile  string
	ConfigFile string
	LogLevel   zerolog.Level
	LogFile    string
	SafeMode   bool

	CycleMS       int   `json:"cycle_ms"`
	LockTimeoutMS int   `json:"lock_timeout_ms"`
	Brightness    uint8 `json:"brightness"`

	Encoder Encoder `json:"encoder"`
	Serial  Serial  `json:"serial"`
	MQTT    MQTT    `json:"mqtt"`

	HTTPPort    int    `json:"http_port"`
	JournalPath string `json:"journal_path"`
	NtfyTopic   string `json:"ntfy_topic"`

	EnableDatadog bool     `json:"enable_datadog"`
	DDAgentAddr   string   `json:"dd_agent_addr"`
	DDNamespace   string   `json:"dd_namespace"`
	DDTags        []string `json:"dd_tags"`

	GPIO GPIO `json:"gpio"`
}

func Load() Config {
	var cfg Config
	var logLevel string

	flag.StringVar(&cfg.StateFile, "state-file", "data/panel-state.json", "Path to last-state file")
	flag.StringVar(&cfg.ConfigFile, "config-file", "config.json", "Path to panel config file")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.LogFile, "log-file", "", "Log file (stderr when empty)")
	flag.BoolVar(&cfg.SafeMode, "safe-mode", false, "Run against fake hardware lines")
	flag.Parse()

	cfg.LogLevel = ParseLogLevel(logLevel)

	file, err := os.Open(cfg.ConfigFile)
	if err != nil {
		panic("Failed to load config file: " + err.Error())
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		panic("Failed to parse config file: " + err.Error())
	}

	cfg.applyDefaults()
	cfg.validate()
	return cfg
}

func ParseLogLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (cfg *Config) applyDefaults() {
	if cfg.CycleMS == 0 {
		cfg.CycleMS = 10
	}
	if cfg.LockTimeoutMS == 0 {
		cfg.LockTimeoutMS = 5000
	}
	if cfg.Brightness == 0 {
		cfg.Brightness = 7
	}
	if cfg.Encoder.SelectingDirection == 0 {
		cfg.Encoder.SelectingDirection = 1
	}
	if cfg.Encoder.SettingDirection == 0 {
		cfg.Encoder.SettingDirection = -1
	}
	if cfg.Encoder.StepsPerDetent == 0 {
		cfg.Encoder.StepsPerDetent = 4
	}
	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = 115200
	}
	if cfg.Serial.ReadTimeoutMS == 0 {
		cfg.Serial.ReadTimeoutMS = 20
	}
	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = "vent-panel"
	}
	if cfg.MQTT.TopicPrefix == "" {
		cfg.MQTT.TopicPrefix = "vent-panel"
	}
	if cfg.GPIO.Chip == "" {
		cfg.GPIO.Chip = "gpiochip0"
	}
}

func (cfg *Config) Cycle() time.Duration {
	return time.Duration(cfg.CycleMS) * time.Millisecond
}

func (cfg *Config) LockTimeout() time.Duration {
	return time.Duration(cfg.LockTimeoutMS) * time.Millisecond
}

func (cfg *Config) ReadTimeout() time.Duration {
	return time.Duration(cfg.Serial.ReadTimeoutMS) * time.Millisecond
}

// Line is one named offset from the GPIO section.
type Line struct {
	Name   string
	Offset int
}

type bank struct {
	name    string
	offsets []int
	want    int
	labels  func(int) string
}

func (g GPIO) banks() []bank {
	return []bank{
		{"parameter_leds", g.ParameterLEDs, model.NumParameters, func(i int) string { return model.Parameter(i).String() }},
		{"mode_leds", g.ModeLEDs, model.NumModeLEDs, func(i int) string { return model.ModeLED(i).String() }},
		{"alarm_leds", g.AlarmLEDs, model.NumAlarms, func(i int) string { return model.Alarm(i).String() }},
		{"buttons", g.Buttons, model.NumButtons, func(i int) string { return model.Button(i).String() }},
		{"display_data", g.DisplayData, model.NumDisplays, func(i int) string { return fmt.Sprint(i) }},
	}
}

// Lines flattens every configured offset with a readable name.
func (g GPIO) Lines() []Line {
	var out []Line
	for _, b := range g.banks() {
		for i, off := range b.offsets {
			out = append(out, Line{Name: fmt.Sprintf("gpio.%s[%s]", b.name, b.labels(i)), Offset: off})
		}
	}
	singles := []struct {
		name   string
		offset *int
	}{
		{"encoder_a", g.EncoderA},
		{"encoder_b", g.EncoderB},
		{"display_clock", g.DisplayClock},
	}
	for _, s := range singles {
		if s.offset != nil {
			out = append(out, Line{Name: "gpio." + s.name, Offset: *s.offset})
		}
	}
	return out
}

func (cfg *Config) validate() {
	var (
		missingFields []string
		usedPins      = map[int]string{}
		conflicts     []string
	)

	for _, b := range cfg.GPIO.banks() {
		if len(b.offsets) != b.want {
			missingFields = append(missingFields, fmt.Sprintf("gpio.%s (need %d, got %d)", b.name, b.want, len(b.offsets)))
		}
	}
	if cfg.GPIO.EncoderA == nil {
		missingFields = append(missingFields, "gpio.encoder_a")
	}
	if cfg.GPIO.EncoderB == nil {
		missingFields = append(missingFields, "gpio.encoder_b")
	}
	if cfg.GPIO.DisplayClock == nil {
		missingFields = append(missingFields, "gpio.display_clock")
	}

	for _, l := range cfg.GPIO.Lines() {
		if other, exists := usedPins[l.Offset]; exists {
			conflicts = append(conflicts, fmt.Sprintf("%s and %s both use line %d", l.Name, other, l.Offset))
		} else {
			usedPins[l.Offset] = l.Name
		}
	}

	if len(missingFields) > 0 {
		panic("Missing required GPIO config fields: " + strings.Join(missingFields, ", "))
	}
	if len(conflicts) > 0 {
		panic("Conflicting GPIO lines: " + strings.Join(conflicts, ", "))
	}
	if cfg.Brightness > 7 {
		panic(fmt.Sprintf("Display brightness %d out of range 0-7", cfg.Brightness))
	}
}

// Direction is the encoder sign and scaling the panel runs with.
func (cfg *Config) Direction() input.Direction {
	return input.Direction{
		Selecting:      cfg.Encoder.SelectingDirection,
		Setting:        cfg.Encoder.SettingDirection,
		StepsPerDetent: cfg.Encoder.StepsPerDetent,
	}
}
