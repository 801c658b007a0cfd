package main

import (
	"github.com/thatsimonsguy/vent-panel/internal/model"
	"github.com/thatsimonsguy/vent-panel/internal/protocol"
)

// plant stands in for the control unit: it polls the panel's status frame and
// answers with telemetry derived from the settings it was sent.
type plant struct {
	link   *protocol.Link
	alarms [model.NumAlarms]bool
	breath int
	last   protocol.Status
}

func newPlant(link *protocol.Link) *plant {
	return &plant{link: link}
}

func (p *plant) ToggleAlarm(a model.Alarm) {
	p.alarms[a] = !p.alarms[a]
	if !p.anyAlarm() {
		p.alarms[model.AlarmMuted] = false
	}
}

func (p *plant) anyAlarm() bool {
	for i, on := range p.alarms {
		if on && model.Alarm(i) != model.AlarmMuted {
			return true
		}
	}
	return false
}

// Poll runs one request/answer exchange.
func (p *plant) Poll() protocol.Telemetry {
	f := p.link.Serve()
	p.last = protocol.DecodeStatus(f)
	if f.Muted() && p.anyAlarm() {
		p.alarms[model.AlarmMuted] = true
	}

	t := p.telemetry()
	raw := t.Encode()
	p.link.Receive(raw[:])
	return t
}

// PollShort sends only the achieved values, leaving the alarm words from the
// previous frame in place.
func (p *plant) PollShort() {
	t := p.telemetry()
	raw := t.Encode()
	p.link.Receive(raw[:6])
}

func (p *plant) telemetry() protocol.Telemetry {
	var t protocol.Telemetry
	for i, on := range p.alarms {
		t.SetAlarm(model.Alarm(i), on)
	}
	if p.last.Operating != model.Run {
		return t
	}

	p.breath = (p.breath + 1) % 8
	jitter := p.breath - 4
	v := p.last.Values

	if p.last.Ventilation.Family() == model.VolumeFamily {
		t.Values[0] = int16(v[model.TidalVolume] + jitter)
		t.Values[1] = int16(v[model.TidalVolume]/2 + jitter)
	} else {
		t.Values[0] = int16(v[model.MaxPressure]*15 + jitter)
		t.Values[1] = int16(v[model.MaxPressure]*10 + jitter)
	}
	t.Values[2] = 50
	return t
}
