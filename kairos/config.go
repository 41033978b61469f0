//go:build linux

package kairos

import (
	"time"

	"github.com/pkg/errors"
	"go.viam.com/rdk/resource"
	"go.viam.com/utils"
)

// Model is the model triplet for the Kairos board.
var Model = resource.NewModel("viam-labs", "kairos", "same51j20")

const (
	defaultBaudRate = 115200
	defaultTimeout  = 2 * time.Second
)

// Config is the config for the Kairos board.
type Config struct {
	SerialPath string `json:"serial_path"`
	BaudRate   int    `json:"baud_rate,omitempty"`
	TimeoutMs  int    `json:"timeout_ms,omitempty"`

	// Optional Linux GPIO line wired to the MCU reset pin.
	ResetChip string `json:"reset_chip,omitempty"`
	ResetLine *int   `json:"reset_line,omitempty"`
}

// Validate validates the Config.
func (cfg *Config) Validate(path string) ([]string, error) {
	if cfg.SerialPath == "" {
		return nil, utils.NewConfigValidationFieldRequiredError(path, "serial_path")
	}
	if cfg.BaudRate < 0 {
		return nil, utils.NewConfigValidationError(path, errors.Errorf("baud_rate must be positive, got %d", cfg.BaudRate))
	}
	if cfg.TimeoutMs < 0 {
		return nil, utils.NewConfigValidationError(path, errors.Errorf("timeout_ms must be positive, got %d", cfg.TimeoutMs))
	}
	if (cfg.ResetChip == "") != (cfg.ResetLine == nil) {
		return nil, utils.NewConfigValidationError(path, errors.New("reset_chip and reset_line must be set together"))
	}
	if cfg.ResetLine != nil && *cfg.ResetLine < 0 {
		return nil, utils.NewConfigValidationError(path, errors.Errorf("reset_line must not be negative, got %d", *cfg.ResetLine))
	}
	return nil, nil
}

func (cfg *Config) baudRate() int {
	if cfg.BaudRate == 0 {
		return defaultBaudRate
	}
	return cfg.BaudRate
}

func (cfg *Config) timeout() time.Duration {
	if cfg.TimeoutMs == 0 {
		return defaultTimeout
	}
	return time.Duration(cfg.TimeoutMs) * time.Millisecond
}
