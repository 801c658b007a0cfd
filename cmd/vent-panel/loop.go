package main

import (
	"database/sql"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/vent-panel/db"
	"github.com/thatsimonsguy/vent-panel/internal/api"
	"github.com/thatsimonsguy/vent-panel/internal/controller"
	"github.com/thatsimonsguy/vent-panel/internal/datadog"
	"github.com/thatsimonsguy/vent-panel/internal/device"
	"github.com/thatsimonsguy/vent-panel/internal/input"
	"github.com/thatsimonsguy/vent-panel/internal/model"
	"github.com/thatsimonsguy/vent-panel/internal/mqtt"
	"github.com/thatsimonsguy/vent-panel/internal/state"
	"github.com/thatsimonsguy/vent-panel/internal/telemetry"
	"github.com/thatsimonsguy/vent-panel/internal/transport"
)

// ButtonReader samples the raw button levels.
type ButtonReader interface {
	Pressed() ([model.NumButtons]bool, error)
}

// loop is everything one control cycle touches. Optional sinks may be nil.
type loop struct {
	buttons   ButtonReader
	bank      *input.ButtonBank
	engine    *controller.Engine
	outputs   *device.Outputs
	telemetry *telemetry.Service

	journal *sql.DB
	session string
	mirror  *mqtt.Mirror
	api     *api.Server
	stats   func() transport.Stats

	published bool
	now       func() time.Time
}

func (l *loop) cycle(t time.Time) controller.Result {
	pressed, err := l.buttons.Pressed()
	if err != nil {
		log.Warn().Err(err).Msg("Button read failed")
	} else {
		l.bank.Sample(pressed, t, &l.engine.Panel.Buttons)
	}

	res := l.engine.Step(t)

	if err := l.outputs.Apply(res.Outputs, res.Elapsed); err != nil {
		log.Warn().Err(err).Msg("Output write failed")
	}

	alarms := l.telemetry.DrainEvents()
	events := make([]state.Event, 0, len(res.Events)+len(alarms))
	events = append(events, res.Events...)
	events = append(events, alarms...)

	if l.journal != nil && len(events) > 0 {
		if err := db.RecordEvents(l.journal, l.session, events, res.Snapshot); err != nil {
			log.Error().Err(err).Int("events", len(events)).Msg("Failed to journal events")
		}
	}

	if l.mirror != nil {
		if len(res.Events) > 0 || !l.published {
			l.mirror.Status(res.Snapshot, t)
			l.published = true
		}
		for _, e := range alarms {
			l.mirror.Alarm(e)
		}
	}

	if l.api != nil {
		var stats transport.Stats
		if l.stats != nil {
			stats = l.stats()
		}
		l.api.Update(res, l.telemetry.Health(), stats)
	}

	datadog.Report(res, l.now().Sub(t))
	return res
}

// run ticks the loop until a signal arrives.
func (l *loop) run(tick <-chan time.Time, sig <-chan os.Signal) {
	for {
		select {
		case s := <-sig:
			log.Info().Str("signal", s.String()).Msg("Shutting down")
			return
		case t := <-tick:
			l.cycle(t)
		}
	}
}

func (l *loop) snapshot() state.Snapshot {
	return l.engine.Panel.Snapshot()
}
