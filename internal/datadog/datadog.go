package datadog

import (
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/vent-panel/internal/controller"
	"github.com/thatsimonsguy/vent-panel/internal/env"
	"github.com/thatsimonsguy/vent-panel/internal/model"
)

var dogstatsd *statsd.Client

func InitMetrics() {
	if env.Cfg == nil || !env.Cfg.EnableDatadog {
		log.Info().Msg("Datadog metrics disabled")
		return
	}

	var err error
	dogstatsd, err = statsd.New(env.Cfg.DDAgentAddr)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create DogStatsD client")
		return
	}

	dogstatsd.Namespace = env.Cfg.DDNamespace
	dogstatsd.Tags = env.Cfg.DDTags

	log.Info().
		Str("addr", env.Cfg.DDAgentAddr).
		Str("namespace", env.Cfg.DDNamespace).
		Strs("tags", env.Cfg.DDTags).
		Msg("Datadog metrics initialized")
}

func Close() {
	if dogstatsd != nil {
		dogstatsd.Close()
		dogstatsd = nil
	}
}

// Gauge is a variable so tests can capture what Report emits.
var Gauge = func(name string, value float64, tags ...string) {
	if dogstatsd != nil {
		err := dogstatsd.Gauge(name, value, tags, 1)
		if err != nil {
			log.Warn().Err(err).Str("metric", name).Msg("Failed to emit gauge metric")
		}
	}
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Report emits one cycle's state. Cycle is the time the step took.
func Report(r controller.Result, cycle time.Duration) {
	p := r.Snapshot
	Gauge("panel.running", boolGauge(p.Operating == model.Run.String()))
	Gauge("panel.ventilation", 1, "state:"+p.Ventilation, "family:"+p.Family)
	Gauge("panel.interface", 1, "state:"+p.Interface)

	for _, param := range p.Parameters {
		Gauge("panel.parameter.set", float64(param.Set), "parameter:"+param.Name)
	}

	Gauge("panel.achieved.volume", float64(r.Telemetry.AchievedVolume()))
	Gauge("panel.achieved.pip", float64(r.Telemetry.PeakPressure())/10)
	Gauge("panel.achieved.peep", float64(r.Telemetry.PEEP())/10)

	for i, active := range r.Telemetry.Alarms() {
		Gauge("panel.alarm", boolGauge(active), "alarm:"+model.Alarm(i).String())
	}

	Gauge("panel.cycle_ms", float64(cycle.Microseconds())/1000)
}
