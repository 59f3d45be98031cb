package poller

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"synop-relay/internal/frame"
	"synop-relay/internal/observation"
)

var (
	cycles      = metrics.NewCounter("poll_cycles_total")         //nolint:gochecknoglobals
	fetchErrors = metrics.NewCounter("poll_fetch_errors_total")   //nolint:gochecknoglobals
	writeErrors = metrics.NewCounter("serial_write_errors_total") //nolint:gochecknoglobals
	temperature = metrics.NewGauge("temperature_celsius", nil)    //nolint:gochecknoglobals
	publishErrs = metrics.NewCounter("mqtt_publish_errors_total") //nolint:gochecknoglobals
)

// Fetcher retrieves the raw decoded payload for a station.
type Fetcher interface {
	Fetch(ctx context.Context, stationID int) (any, error)
}

// Transmitter writes one encoded frame to the serial port.
type Transmitter interface {
	Write(data []byte) error
}

// Publisher forwards one observation payload to a broker.
type Publisher interface {
	Publish(payload []byte) error
}

type Options struct {
	StationID int
	Interval  time.Duration
	Once      bool
}

// Poller runs the fetch-extract-format-transmit cycle. A nil Transmitter or
// Publisher disables the corresponding step; every per-cycle failure is
// logged and the loop continues.
type Poller struct {
	opts      Options
	client    Fetcher
	serial    Transmitter
	publisher Publisher
}

func New(opts Options, client Fetcher, serial Transmitter, publisher Publisher) *Poller {
	return &Poller{
		opts:      opts,
		client:    client,
		serial:    serial,
		publisher: publisher,
	}
}

// Run executes cycles until ctx is cancelled. In single-shot mode exactly one
// cycle runs and Run returns without sleeping. The interval measures time
// between cycle starts, so the sleep is the interval minus the cycle's own
// duration.
func (p *Poller) Run(ctx context.Context) error {
	if p.opts.Once {
		p.cycle(ctx)

		return nil
	}

	for {
		start := time.Now()

		p.cycle(ctx)

		if ctx.Err() != nil {
			return nil
		}

		sleep := p.opts.Interval - time.Since(start)
		if sleep < 0 {
			sleep = 0
		}

		timer := time.NewTimer(sleep)

		select {
		case <-ctx.Done():
			timer.Stop()

			return nil
		case <-timer.C:
		}
	}
}

func (p *Poller) cycle(ctx context.Context) {
	cycles.Inc()

	payload, err := p.client.Fetch(ctx, p.opts.StationID)
	if err != nil {
		fetchErrors.Inc()
		slog.Error("api request failed", "station", p.opts.StationID, "err", err)

		return
	}

	obs := observation.SelectLatest(observation.Normalize(payload))
	if obs.Record == nil {
		slog.Error("no data for station", "station", p.opts.StationID)

		return
	}

	p.report(obs)

	out := frame.Encode(obs.Temperature, obs.Timestamp)
	slog.Info("sending frame", "frame", out)

	if p.serial != nil {
		if err := p.serial.Write(frame.Sanitize(out)); err != nil {
			writeErrors.Inc()
			slog.Warn("serial write failed", "err", err)
		}
	}

	if p.publisher != nil {
		if err := p.publish(obs, out); err != nil {
			publishErrs.Inc()
			slog.Warn("mqtt publish failed", "err", err)
		}
	}
}

func (p *Poller) report(obs observation.Observation) {
	name := obs.Record.StationName(p.opts.StationID)

	switch {
	case obs.Temperature == nil && obs.Timestamp == nil:
		slog.Info("no record with a measurement time or temperature",
			"station", name, "id", p.opts.StationID)
	case obs.Temperature == nil:
		slog.Info("no temperature field in recent records",
			"station", name, "id", p.opts.StationID,
			"lastMeasuredAt", obs.Timestamp.Format(time.DateTime))
	default:
		temperature.Set(*obs.Temperature)

		measuredAt := "no measurement time"
		if obs.Timestamp != nil {
			measuredAt = obs.Timestamp.Format(time.DateTime)
		}

		slog.Info("observation",
			"station", name, "id", p.opts.StationID,
			"temperature", *obs.Temperature,
			"measuredAt", measuredAt)
	}
}

type message struct {
	StationID   int        `json:"station_id"`
	Station     string     `json:"station"`
	Temperature *float64   `json:"temperature_c,omitempty"`
	MeasuredAt  *time.Time `json:"measured_at,omitempty"`
	Frame       string     `json:"frame"`
}

func (p *Poller) publish(obs observation.Observation, out string) error {
	payload, err := json.Marshal(message{
		StationID:   p.opts.StationID,
		Station:     obs.Record.StationName(p.opts.StationID),
		Temperature: obs.Temperature,
		MeasuredAt:  obs.Timestamp,
		Frame:       out,
	})
	if err != nil {
		return err
	}

	return p.publisher.Publish(payload)
}
