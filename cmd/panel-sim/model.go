package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/thatsimonsguy/vent-panel/internal/controller"
	"github.com/thatsimonsguy/vent-panel/internal/device"
	"github.com/thatsimonsguy/vent-panel/internal/display"
	"github.com/thatsimonsguy/vent-panel/internal/input"
	"github.com/thatsimonsguy/vent-panel/internal/model"
	"github.com/thatsimonsguy/vent-panel/internal/presentation"
	"github.com/thatsimonsguy/vent-panel/internal/protocol"
	"github.com/thatsimonsguy/vent-panel/internal/state"
	"github.com/thatsimonsguy/vent-panel/system/startup"
)

const (
	pollEvery = 10
	maxEvents = 8
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	digitStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Background(lipgloss.Color("0")).
		Bold(true)

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	ledOn      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("●")
	ledOff     = lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Render("○")
	alarmOn    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("●")
)

type tickMsg time.Time

// releaseMsg ends a simulated long press.
type releaseMsg model.Button

type simModel struct {
	engine  *controller.Engine
	link    *protocol.Link
	encoder *input.FakeEncoder
	rec     *display.RecordingDriver
	outputs *device.Outputs
	plant   *plant

	cycle  time.Duration
	ticks  int
	last   controller.Result
	events []string

	keys keyMap
	help help.Model
}

func newModel(now time.Time, cycle time.Duration) *simModel {
	enc := &input.FakeEncoder{}
	panel := state.NewPanel(enc, input.DefaultDirection(), now)
	startup.SeedDefaults(panel)

	link := protocol.NewLink()
	rec := display.NewRecordingDriver()

	m := &simModel{
		engine:  controller.NewEngine(panel, link, now),
		link:    link,
		encoder: enc,
		rec:     rec,
		outputs: &device.Outputs{Displays: rec},
		plant:   newPlant(link),
		cycle:   cycle,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
	m.step(now)
	return m
}

func (m *simModel) Init() tea.Cmd {
	return m.tick()
}

func (m *simModel) tick() tea.Cmd {
	return tea.Tick(m.cycle, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// step runs one control cycle and polls the plant every pollEvery cycles.
func (m *simModel) step(now time.Time) {
	m.ticks++
	if m.ticks%pollEvery == 0 {
		m.plant.Poll()
	}

	m.last = m.engine.Step(now)
	m.outputs.Apply(m.last.Outputs, m.last.Elapsed)

	for _, e := range m.last.Events {
		m.events = append(m.events, describeEvent(e))
	}
	if len(m.events) > maxEvents {
		m.events = m.events[len(m.events)-maxEvents:]
	}
}

func describeEvent(e state.Event) string {
	at := e.At.Format("15:04:05.000")
	switch e.Kind {
	case state.EventTransition:
		return fmt.Sprintf("%s %s: %s -> %s", at, e.Machine, e.From, e.To)
	case state.EventEditConfirmed, state.EventEditAborted, state.EventPresetApplied:
		return fmt.Sprintf("%s %s %s=%d", at, e.Kind, e.Parameter, e.Value)
	}
	return fmt.Sprintf("%s %s %s", at, e.Kind, e.Parameter)
}

func (m *simModel) press(b model.Button, e input.Event) {
	m.engine.Panel.Buttons.Apply(b, e)
}

// hold starts a long press and schedules its release.
func (m *simModel) hold(b model.Button) tea.Cmd {
	m.press(b, input.LongPressStarted)
	return tea.Tick(input.DefaultLongPress, func(time.Time) tea.Msg {
		return releaseMsg(b)
	})
}

func (m *simModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.step(time.Time(msg))
		return m, m.tick()

	case releaseMsg:
		m.press(model.Button(msg), input.LongPressStopped)
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *simModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	steps := input.DefaultDirection().StepsPerDetent

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Start):
		m.press(model.StartButton, input.Clicked)
	case key.Matches(msg, m.keys.StartHold):
		return m.hold(model.StartButton)
	case key.Matches(msg, m.keys.Mode):
		m.press(model.ModeButton, input.Clicked)
	case key.Matches(msg, m.keys.ModeHold):
		return m.hold(model.ModeButton)
	case key.Matches(msg, m.keys.Default):
		m.press(model.DefaultButton, input.Clicked)
	case key.Matches(msg, m.keys.Mute):
		m.press(model.MuteButton, input.Clicked)
	case key.Matches(msg, m.keys.Select):
		m.press(model.SelectButton, input.Clicked)
	case key.Matches(msg, m.keys.Abort):
		return m.hold(model.SelectButton)
	case key.Matches(msg, m.keys.Left):
		m.encoder.Turn(-steps)
	case key.Matches(msg, m.keys.Right):
		m.encoder.Turn(steps)
	case key.Matches(msg, m.keys.Alarm):
		m.plant.ToggleAlarm(model.Alarm(msg.String()[0] - '1'))
	case key.Matches(msg, m.keys.ShortFrame):
		m.plant.PollShort()
	}
	return nil
}

func (m *simModel) led(cmd presentation.LEDCommand, on string) string {
	if cmd.Lit(m.last.Elapsed) {
		return on
	}
	return ledOff
}

func (m *simModel) View() string {
	f := m.last.Outputs
	var b strings.Builder

	b.WriteString(titleStyle.Render("Ventilator panel simulator"))
	b.WriteString("\n")

	var params []string
	for _, p := range model.Parameters() {
		params = append(params, fmt.Sprintf("%s %s\n%s",
			m.led(f.ParameterLEDs[p], ledOn),
			labelStyle.Render(p.String()),
			digitStyle.Render(m.rec.Segments(int(p)).String())))
	}
	left := boxStyle.Render(strings.Join(params, "\n"))

	achieved := []struct {
		label string
		index model.Display
	}{
		{"volume", model.AchievedVolumeDisplay},
		{"pip", model.AchievedPIPDisplay},
		{"peep", model.AchievedPEEPDisplay},
	}
	var measured []string
	for _, a := range achieved {
		measured = append(measured, fmt.Sprintf("%s\n%s", labelStyle.Render(a.label), digitStyle.Render(m.rec.Segments(int(a.index)).String())))
	}

	var modes []string
	for i, cmd := range f.ModeLEDs {
		modes = append(modes, fmt.Sprintf("%s %s", m.led(cmd, ledOn), model.ModeLED(i)))
	}
	var alarms []string
	for i, cmd := range f.AlarmLEDs {
		alarms = append(alarms, fmt.Sprintf("%s %s", m.led(cmd, alarmOn), model.Alarm(i)))
	}

	right := lipgloss.JoinVertical(lipgloss.Left,
		boxStyle.Render(strings.Join(measured, "\n")),
		boxStyle.Render(strings.Join(modes, "  ")),
		boxStyle.Render(strings.Join(alarms, "  ")),
	)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	b.WriteString("\n")

	snap := m.last.Snapshot
	b.WriteString(labelStyle.Render(fmt.Sprintf("interface %s  operating %s  ventilation %s  preset %s  frame %s",
		snap.Interface, snap.Operating, snap.Ventilation, snap.Preset, m.link.Frame().Hex())))
	b.WriteString("\n\n")

	for _, e := range m.events {
		b.WriteString(e)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
