package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/lmittmann/tint"

	"synop-relay/internal/config"
	"synop-relay/internal/imgw"
	"synop-relay/internal/mqtt"
	"synop-relay/internal/poller"
	"synop-relay/internal/serial"
)

const metricsPushInterval = 5 * time.Second

func main() {
	cfg := config.FromFlags()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Serial is best-effort: an unavailable port downgrades the run to
	// print-only instead of aborting.
	var sink poller.Transmitter

	if cfg.Serial.PortName != "" {
		svc, err := serial.Open(cfg.Serial.PortName, cfg.Serial.BaudRate)
		if err != nil {
			slog.Warn("serial port unavailable, print-only mode", "err", err)
		} else {
			defer svc.Close()

			sink = svc
		}
	}

	var publisher poller.Publisher

	if cfg.MQTT.Enable {
		svc := mqtt.New(cfg.MQTT)
		if err := svc.Connect(); err != nil {
			slog.Warn("mqtt broker unavailable, publishing disabled", "err", err)
		} else {
			defer svc.Close()

			publisher = svc
		}
	}

	if cfg.MetricsPushURL != "" {
		writeMetrics := func(w io.Writer) {
			metrics.WritePrometheus(w, true)
		}

		opts := &metrics.PushOptions{
			ExtraLabels: `service_name="synop-relay"`,
		}

		err := metrics.InitPushExtWithOptions(ctx, cfg.MetricsPushURL, metricsPushInterval, writeMetrics, opts)
		if err != nil {
			slog.Error("InitPushExtWithOptions", "err", err)

			return
		}
	}

	p := poller.New(poller.Options{
		StationID: cfg.Station,
		Interval:  cfg.Interval,
		Once:      cfg.Once,
	}, imgw.NewClient(cfg.APIBase), sink, publisher)

	if !cfg.Once {
		slog.Info("polling", "station", cfg.Station, "interval", cfg.Interval)
	}

	if err := p.Run(ctx); err != nil {
		slog.Error("poller stopped", "err", err)
	}
}
