package serial

import (
	"fmt"
	"log/slog"

	"go.bug.st/serial"
)

// Service wraps a serial port opened once at startup and reused for the
// process lifetime.
type Service struct {
	port serial.Port
}

func Open(portName string, baudRate int) (*Service, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
	}

	slog.Info("open serial", "portName", portName, "baudRate", baudRate)

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}

	return &Service{
		port: port,
	}, nil
}

func (s *Service) Close() error {
	return s.port.Close()
}

// Write sends one encoded frame to the port.
func (s *Service) Write(data []byte) error {
	if _, err := s.port.Write(data); err != nil {
		return fmt.Errorf("serial write: %w", err)
	}

	return nil
}
