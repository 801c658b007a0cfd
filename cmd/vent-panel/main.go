package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/vent-panel/db"
	"github.com/thatsimonsguy/vent-panel/internal/api"
	"github.com/thatsimonsguy/vent-panel/internal/config"
	"github.com/thatsimonsguy/vent-panel/internal/controller"
	"github.com/thatsimonsguy/vent-panel/internal/datadog"
	"github.com/thatsimonsguy/vent-panel/internal/device"
	"github.com/thatsimonsguy/vent-panel/internal/env"
	"github.com/thatsimonsguy/vent-panel/internal/gpio"
	"github.com/thatsimonsguy/vent-panel/internal/input"
	"github.com/thatsimonsguy/vent-panel/internal/logging"
	"github.com/thatsimonsguy/vent-panel/internal/mqtt"
	"github.com/thatsimonsguy/vent-panel/internal/notifications"
	"github.com/thatsimonsguy/vent-panel/internal/protocol"
	"github.com/thatsimonsguy/vent-panel/internal/state"
	"github.com/thatsimonsguy/vent-panel/internal/store"
	"github.com/thatsimonsguy/vent-panel/internal/telemetry"
	"github.com/thatsimonsguy/vent-panel/internal/transport"
	"github.com/thatsimonsguy/vent-panel/system/shutdown"
	"github.com/thatsimonsguy/vent-panel/system/startup"
)

func main() {
	cfg := config.Load()
	env.Cfg = &cfg
	logging.Init(cfg.LogLevel, cfg.LogFile)

	log.Info().
		Str("config_file", cfg.ConfigFile).
		Str("state_file", cfg.StateFile).
		Dur("cycle", cfg.Cycle()).
		Msg("Starting ventilator panel")

	var chip gpio.Chip
	if cfg.SafeMode {
		log.Warn().Msg("SAFE MODE ENABLED, panel lines are simulated")
		chip = gpio.NewFakeChip()
	} else {
		c, err := gpio.NewRealChip(cfg.GPIO.Chip)
		if err != nil {
			shutdown.ShutdownWithError(err, "Failed to open GPIO chip")
			return
		}
		chip = c
	}
	shutdown.OnShutdown(func() {
		if err := chip.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to release GPIO lines")
		}
	})

	hw, err := device.Build(chip, cfg.GPIO)
	if err != nil {
		shutdown.ShutdownWithError(err, "Failed to request panel lines")
		return
	}

	if err := startup.SelfTest(hw.Outputs, cfg.Brightness); err != nil {
		log.Warn().Err(err).Msg("Self-test reported output errors")
	}

	now := time.Now()
	panel := state.NewPanel(hw.Encoder, cfg.Direction(), now)
	panel.LockTimeout = cfg.LockTimeout()
	startup.SeedDefaults(panel)

	link := protocol.NewLink()
	engine := controller.NewEngine(panel, link, now)

	notifications.Init()
	datadog.InitMetrics()

	tel := telemetry.NewService()
	link.OnReceive(tel.Process)

	ctx, cancel := context.WithCancel(context.Background())

	notified := make(chan struct{})
	go func() {
		tel.Run(ctx)
		close(notified)
	}()
	shutdown.OnShutdown(func() { <-notified })

	l := &loop{
		buttons:   hw.Buttons,
		bank:      input.NewButtonBank(),
		engine:    engine,
		outputs:   hw.Outputs,
		telemetry: tel,
		now:       time.Now,
	}

	if cfg.Serial.Port != "" {
		port, err := transport.OpenSerial(cfg.Serial.Port, cfg.Serial.Baud, cfg.ReadTimeout())
		if err != nil {
			shutdown.ShutdownWithError(err, "Failed to open bus port")
			return
		}
		bridge := transport.New(port, link)
		l.stats = bridge.Stats
		go func() {
			if err := bridge.Run(ctx); err != nil {
				log.Error().Err(err).Msg("Bus transport stopped")
			}
		}()
		shutdown.OnShutdown(func() { port.Close() })
	} else {
		log.Warn().Msg("No bus port configured, telemetry disabled")
	}

	if cfg.JournalPath != "" {
		journal, err := db.Open(cfg.JournalPath)
		if err != nil {
			shutdown.ShutdownWithError(err, "Failed to open journal")
			return
		}
		session, err := db.NewSession(journal, now)
		if err != nil {
			shutdown.ShutdownWithError(err, "Failed to start journal session")
			return
		}
		l.journal, l.session = journal, session
		log.Info().Str("session", session).Str("path", cfg.JournalPath).Msg("Journal session started")

		shutdown.OnShutdown(func() {
			if err := db.EndSession(journal, session, time.Now()); err != nil {
				log.Warn().Err(err).Msg("Failed to close journal session")
			}
			journal.Close()
		})
	}

	if cfg.MQTT.Broker != "" {
		pub, err := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.TopicPrefix)
		if err != nil {
			log.Warn().Err(err).Str("broker", cfg.MQTT.Broker).Msg("MQTT unavailable, mirror disabled")
		} else {
			l.mirror = mqtt.NewMirror(pub, 64)
			done := make(chan struct{})
			go func() {
				l.mirror.Run(ctx)
				close(done)
			}()
			shutdown.OnShutdown(func() {
				<-done
				pub.Close()
			})
		}
	}

	if cfg.HTTPPort != 0 {
		l.api = api.NewServer(l.journal)
		go func() {
			if err := l.api.Start(cfg.HTTPPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("API server stopped")
			}
		}()
		shutdown.OnShutdown(l.api.Close)
	}

	st := store.New(cfg.StateFile)

	ticker := time.NewTicker(cfg.Cycle())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	l.run(ticker.C, sigCh)
	ticker.Stop()
	cancel()

	if err := st.Save(l.snapshot()); err != nil {
		log.Warn().Err(err).Str("path", st.Path()).Msg("Failed to save last state")
	}
	if err := hw.Outputs.AllOff(); err != nil {
		log.Warn().Err(err).Msg("Failed to blank outputs")
	}
	datadog.Close()
	shutdown.Shutdown()
}
