package config

import (
	"flag"
	"time"
)

const (
	defaultStation = 12295
	defaultAPIBase = "https://danepubliczne.imgw.pl/api/data/synop/id"

	defaultSerialPort = ""
	defaultBaudRate   = 9600

	defaultIntervalSeconds = 60

	defaultEnableMQTT        = false
	defaultBroker            = "tcp://localhost:1883"
	defaultClientID          = "synop-relay"
	defaultKeepAliveDuration = 2 * time.Second
	defaultPingTimeout       = 1 * time.Second
	defaultUsername          = ""
	defaultPassword          = ""
	defaultTopic             = "synop/observations"

	defaultMetricsPushURL = ""
)

type Config struct {
	Debug bool

	Station int
	APIBase string

	Interval time.Duration
	Once     bool

	Serial Serial
	MQTT   MQTT

	MetricsPushURL string
}

type Serial struct {
	PortName string
	BaudRate int
}

type MQTT struct {
	Enable            bool
	KeepAliveDuration time.Duration
	Broker            string
	ClientID          string
	Username          string
	Password          string
	PingTimeout       time.Duration
	Topic             string
}

func FromFlags() Config {
	cfg := Config{}

	var intervalSeconds int

	flag.BoolVar(&cfg.Debug, "app-debug", false, "enable debug mode")

	flag.IntVar(&cfg.Station, "station", defaultStation, "synop station id")
	flag.IntVar(&cfg.Station, "s", defaultStation, "synop station id (shorthand)")
	flag.StringVar(&cfg.APIBase, "api-base", defaultAPIBase, "synop API base URL")

	flag.StringVar(&cfg.Serial.PortName, "serial-port", defaultSerialPort,
		"serial device path (e.g., /dev/ttyUSB0); empty disables serial output")
	flag.StringVar(&cfg.Serial.PortName, "p", defaultSerialPort, "serial device path (shorthand)")
	flag.IntVar(&cfg.Serial.BaudRate, "baud", defaultBaudRate, "serial baud rate")

	flag.IntVar(&intervalSeconds, "interval", defaultIntervalSeconds, "seconds between poll cycle starts")
	flag.IntVar(&intervalSeconds, "i", defaultIntervalSeconds, "seconds between poll cycle starts (shorthand)")
	flag.BoolVar(&cfg.Once, "once", false, "run a single poll cycle and exit")

	flag.BoolVar(&cfg.MQTT.Enable, "mqtt-enable", defaultEnableMQTT, "enable MQTT publisher")
	flag.StringVar(&cfg.MQTT.Broker, "mqtt-broker", defaultBroker, "MQTT broker URI")
	flag.StringVar(&cfg.MQTT.ClientID, "mqtt-client-id", defaultClientID, "MQTT client id")
	flag.DurationVar(&cfg.MQTT.KeepAliveDuration, "mqtt-keep-alive", defaultKeepAliveDuration, "MQTT keep alive duration")
	flag.DurationVar(&cfg.MQTT.PingTimeout, "mqtt-ping-timeout", defaultPingTimeout, "MQTT ping timeout")
	flag.StringVar(&cfg.MQTT.Username, "mqtt-username", defaultUsername, "MQTT username")
	flag.StringVar(&cfg.MQTT.Password, "mqtt-password", defaultPassword, "MQTT password")
	flag.StringVar(&cfg.MQTT.Topic, "mqtt-topic", defaultTopic, "MQTT topic for observations")

	flag.StringVar(&cfg.MetricsPushURL, "metrics-push", defaultMetricsPushURL,
		"URL to push Prometheus metrics to; empty disables push")

	flag.Parse()

	cfg.Interval = time.Duration(intervalSeconds) * time.Second

	return cfg
}
