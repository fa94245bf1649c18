package driver

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"
	"go.yaml.in/yaml/v3"
)

// Config holds the timing and checking parameters of the driver.
type Config struct {
	// WatchdogLimit is the number of steps allowed without progress.
	// Default: 1000.
	WatchdogLimit uint64 `json:"watchdog_limit" yaml:"watchdog_limit"`

	// ResetCycles is the number of cycles reset is held. Default: 10.
	ResetCycles int `json:"reset_cycles" yaml:"reset_cycles"`

	// ReleaseCycles is the number of cycles stepped after reset is
	// released. Default: 3.
	ReleaseCycles int `json:"release_cycles" yaml:"release_cycles"`

	// DrainCycles is the number of idle cycles after each job. Default: 3.
	DrainCycles int `json:"drain_cycles" yaml:"drain_cycles"`

	// ClockFreq is the simulated clock frequency, used for waveform
	// timestamps and reported simulated time. Default: 100 MHz.
	ClockFreq sim.Freq `json:"clock_freq_hz" yaml:"clock_freq_hz"`

	// StrictContract enables device contract checks on every step.
	StrictContract bool `json:"strict_contract" yaml:"strict_contract"`

	// CheckFinalTime fails a job whose returned t_final differs from the
	// requested one.
	CheckFinalTime bool `json:"check_final_time" yaml:"check_final_time"`
}

// DefaultConfig returns the reference driver timing.
func DefaultConfig() *Config {
	return &Config{
		WatchdogLimit: 1000,
		ResetCycles:   10,
		ReleaseCycles: 3,
		DrainCycles:   3,
		ClockFreq:     100 * sim.MHz,
	}
}

// LoadConfig loads a Config from a YAML (.yaml, .yml) or JSON file. Fields
// missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read driver config file")
	}

	config := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse driver config")
	}

	return config, nil
}

// SaveConfig writes the Config to a YAML or JSON file, chosen by extension.
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return errors.Wrap(err, "failed to serialize driver config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write driver config file")
	}

	return nil
}

// Validate checks that the values describe a usable driver.
func (c *Config) Validate() error {
	if c.WatchdogLimit == 0 {
		return errors.New("watchdog_limit must be > 0")
	}
	if c.ResetCycles <= 0 {
		return errors.New("reset_cycles must be > 0")
	}
	if c.ReleaseCycles < 0 {
		return errors.New("release_cycles must be >= 0")
	}
	if c.DrainCycles < 0 {
		return errors.New("drain_cycles must be >= 0")
	}
	if uint64(c.ResetCycles+c.ReleaseCycles) >= c.WatchdogLimit {
		return errors.New("reset_cycles + release_cycles must be < watchdog_limit")
	}
	if c.ClockFreq <= 0 {
		return errors.New("clock_freq_hz must be > 0")
	}
	return nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

func isYAML(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
