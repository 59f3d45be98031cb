package mqtt

import (
	"fmt"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"synop-relay/internal/config"
)

// Service publishes observation payloads to a single MQTT topic.
type Service struct {
	topic  string
	client mqtt.Client
}

func New(cfg config.MQTT) *Service {
	opts := mqtt.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetKeepAlive(cfg.KeepAliveDuration)
	opts.SetPingTimeout(cfg.PingTimeout)
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		slog.Debug("mqtt connected", "broker", cfg.Broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		slog.Warn("mqtt connection lost", "err", err)
	})

	return &Service{
		topic:  cfg.Topic,
		client: mqtt.NewClient(opts),
	}
}

func (s *Service) Connect() error {
	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect: %w", token.Error())
	}

	return nil
}

// Publish sends one observation payload with QoS 0.
func (s *Service) Publish(payload []byte) error {
	if token := s.client.Publish(s.topic, 0, false, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish %s: %w", s.topic, token.Error())
	}

	return nil
}

func (s *Service) Close() error {
	if !s.client.IsConnectionOpen() {
		return nil
	}

	s.client.Disconnect(250)

	return nil
}
