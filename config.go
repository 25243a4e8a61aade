package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// defaultConfigPath is the filename used when neither --config nor
// PERIDRV_CONFIG names one.
const defaultConfigPath = "peridrv.json"

// Environment variables consulted after the optional .env file is loaded.
const (
	envConfigPath = "PERIDRV_CONFIG"
	envLogFile    = "PERIDRV_LOG_FILE"
)

// PinConfig names the header pins used by the app.
type PinConfig struct {
	MenuButton string `json:"menu_button"`
	ExecButton string `json:"exec_button"`
	PWM1       string `json:"pwm1"` // LED dimmer
	PWM2       string `json:"pwm2"` // servo
}

// DisplayConfig selects the OLED bus.  When Enabled is false the host keeps
// the framebuffer in memory only.
type DisplayConfig struct {
	Enabled bool   `json:"enabled"`
	I2CBus  string `json:"i2c_bus"`
}

// PRUConfig describes the co-processor firmware used for ranging.
type PRUConfig struct {
	Event         int    `json:"event"`    // system event raised by the firmware
	Firmware      string `json:"firmware"` // raw PRU0 instruction image
	WaitTimeoutMS int    `json:"wait_timeout_ms"`
}

// RangerConfig controls how the status screen samples the distance sensor.
type RangerConfig struct {
	Samples       int     `json:"samples"`
	MaxDistanceCM float64 `json:"max_distance_cm"`
}

// TimingConfig holds the poll cadence and the input thresholds.
type TimingConfig struct {
	PollIntervalMS    int  `json:"poll_interval_ms"`
	IdleMax           uint `json:"idle_max"`
	MinActionInterval int  `json:"min_action_interval_ms"`
}

// PathConfig holds the sysfs roots so that the bindings can be pointed at a
// scratch directory.
type PathConfig struct {
	ADC string `json:"adc"`
}

// Config is the top level structure serialized to the config file.
type Config struct {
	Pins    PinConfig     `json:"pins"`
	Display DisplayConfig `json:"display"`
	PRU     PRUConfig     `json:"pru"`
	Ranger  RangerConfig  `json:"ranger"`
	Timing  TimingConfig  `json:"timing"`
	Paths   PathConfig    `json:"paths"`
	LogFile string        `json:"log_file"`
}

// DefaultConfig returns the configuration written on first start.
func DefaultConfig() Config {
	return Config{
		Pins: PinConfig{
			MenuButton: "P9_12",
			ExecButton: "P9_15",
			PWM1:       "P8_13",
			PWM2:       "P8_19",
		},
		Display: DisplayConfig{Enabled: true, I2CBus: "2"},
		PRU: PRUConfig{
			Event:         19,
			Firmware:      "/usr/bin/ctrl-app.bin",
			WaitTimeoutMS: 1000,
		},
		Ranger: RangerConfig{Samples: 1, MaxDistanceCM: 100},
		Timing: TimingConfig{
			PollIntervalMS:    50,
			IdleMax:           300,
			MinActionInterval: 200,
		},
		Paths:   PathConfig{ADC: "/sys/bus/iio/devices/iio:device0"},
		LogFile: "peridrv-events.log",
	}
}

// Validate checks the values the controller relies on.
func (c Config) Validate() error {
	for _, name := range []string{c.Pins.MenuButton, c.Pins.ExecButton, c.Pins.PWM1, c.Pins.PWM2} {
		if _, err := ParsePin(name); err != nil {
			return err
		}
	}
	if c.Ranger.Samples < 1 {
		return errors.New("ranger.samples must be at least 1")
	}
	if c.Timing.PollIntervalMS < 0 || c.Timing.MinActionInterval < 0 {
		return errors.New("timing intervals must not be negative")
	}
	if c.PRU.WaitTimeoutMS < 0 {
		return errors.New("pru.wait_timeout_ms must not be negative")
	}
	return nil
}

// Set assigns one setting by its JSON path, e.g. "pins.menu_button" or
// "timing.idle_max".
func (c *Config) Set(key, value string) error {
	var err error
	switch key {
	case "pins.menu_button":
		c.Pins.MenuButton = value
	case "pins.exec_button":
		c.Pins.ExecButton = value
	case "pins.pwm1":
		c.Pins.PWM1 = value
	case "pins.pwm2":
		c.Pins.PWM2 = value
	case "display.enabled":
		c.Display.Enabled, err = strconv.ParseBool(value)
	case "display.i2c_bus":
		c.Display.I2CBus = value
	case "pru.event":
		c.PRU.Event, err = strconv.Atoi(value)
	case "pru.firmware":
		c.PRU.Firmware = value
	case "pru.wait_timeout_ms":
		c.PRU.WaitTimeoutMS, err = strconv.Atoi(value)
	case "ranger.samples":
		c.Ranger.Samples, err = strconv.Atoi(value)
	case "ranger.max_distance_cm":
		c.Ranger.MaxDistanceCM, err = strconv.ParseFloat(value, 64)
	case "timing.poll_interval_ms":
		c.Timing.PollIntervalMS, err = strconv.Atoi(value)
	case "timing.idle_max":
		var n uint64
		n, err = strconv.ParseUint(value, 10, 0)
		c.Timing.IdleMax = uint(n)
	case "timing.min_action_interval_ms":
		c.Timing.MinActionInterval, err = strconv.Atoi(value)
	case "paths.adc":
		c.Paths.ADC = value
	case "log_file":
		c.LogFile = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// PollInterval returns the scheduler cadence.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.Timing.PollIntervalMS) * time.Millisecond
}

// ConfigManager wraps the loaded configuration and a mutex for concurrent
// access.  Changes made through Update are persisted immediately.
type ConfigManager struct {
	Path string

	mu     sync.RWMutex
	cfg    Config
	loaded bool
}

// NewConfigManager returns a manager for the file at path.  An empty path
// selects PERIDRV_CONFIG, falling back to peridrv.json.
func NewConfigManager(path string) *ConfigManager {
	if path == "" {
		path = os.Getenv(envConfigPath)
	}
	if path == "" {
		path = defaultConfigPath
	}
	return &ConfigManager{Path: path}
}

// LoadEnv reads KEY=VALUE pairs from the given .env files into the process
// environment.  Missing files are not an error.
func LoadEnv(files ...string) error {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("loading env: %w", err)
	}
	return nil
}

// Load reads configuration from disk.  If the file does not exist the
// defaults are persisted and used.
func (cm *ConfigManager) Load() error {
	cm.mu.Lock()
	if cm.loaded {
		cm.mu.Unlock()
		return nil
	}
	data, err := os.ReadFile(cm.Path)
	if err != nil {
		if os.IsNotExist(err) {
			cm.cfg = DefaultConfig()
			cm.applyEnv()
			cm.loaded = true
			// Save takes the read lock.
			cm.mu.Unlock()
			return cm.Save()
		}
		cm.mu.Unlock()
		return fmt.Errorf("unable to read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		cm.mu.Unlock()
		return fmt.Errorf("invalid %s: %w", cm.Path, err)
	}
	if err := cfg.Validate(); err != nil {
		cm.mu.Unlock()
		return fmt.Errorf("invalid %s: %w", cm.Path, err)
	}
	cm.cfg = cfg
	cm.applyEnv()
	cm.loaded = true
	cm.mu.Unlock()
	return nil
}

// applyEnv overlays environment overrides.  Caller holds the write lock.
func (cm *ConfigManager) applyEnv() {
	if v, ok := os.LookupEnv(envLogFile); ok {
		cm.cfg.LogFile = v
	}
}

// Save writes the configuration to disk via a temporary file.
func (cm *ConfigManager) Save() error {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	bytes, err := json.MarshalIndent(cm.cfg, "", "  ")
	if err != nil {
		return err
	}
	tmpPath := cm.Path + ".tmp"
	if err := os.WriteFile(tmpPath, bytes, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, cm.Path)
}

// Get returns a copy of the current configuration.
func (cm *ConfigManager) Get() Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.cfg
}

// Update applies fn to the configuration under the write lock and persists
// the result.  The new configuration must validate.
func (cm *ConfigManager) Update(fn func(*Config) error) error {
	cm.mu.Lock()
	next := cm.cfg
	if err := fn(&next); err != nil {
		cm.mu.Unlock()
		return err
	}
	if err := next.Validate(); err != nil {
		cm.mu.Unlock()
		return err
	}
	cm.cfg = next
	cm.mu.Unlock()
	return cm.Save()
}
