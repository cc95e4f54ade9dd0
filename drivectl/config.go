/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package drivectl

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	yaml "gopkg.in/yaml.v2"

	"github.com/facebook/ethercat/cia402"
	"github.com/facebook/ethercat/master"
	"github.com/facebook/ethercat/somanet"
)

// supported pacing policies for the cyclic loop
const (
	// pacingSleep sleeps the full period after every cycle
	pacingSleep = "sleep"
	// pacingDeadline sleeps until the next absolute deadline, absorbing
	// the time the exchange itself took
	pacingDeadline = "deadline"
)

// HealthConfig describes configuration for cycle health formulas
type HealthConfig struct {
	Jitter        string `yaml:"jitter"`         // formula scoring cycle time jitter
	VelocityError string `yaml:"velocity_error"` // formula scoring velocity tracking error
	History       int    `yaml:"history"`        // how many cycle samples to keep
}

// Validate HealthConfig is sane
func (c *HealthConfig) Validate() error {
	if c.History <= 0 {
		return fmt.Errorf("history must be positive")
	}
	m := &Math{Jitter: c.Jitter, VelocityError: c.VelocityError}
	if err := m.Prepare(); err != nil {
		return err
	}
	return nil
}

// Config specifies commander run options
type Config struct {
	Iface              string
	DrivePosition      int           `yaml:"drive_position"`        // bus position of the drive we command, 1-based
	Cycles             int           `yaml:"cycles"`                // process data cycles to run before stopping
	Interval           time.Duration `yaml:"interval"`              // process data cycle period
	ReceiveTimeout     time.Duration `yaml:"receive_timeout"`       // bound on waiting for the returning frame
	SupervisorInterval time.Duration `yaml:"supervisor_interval"`   // link supervision period
	StateTimeout       time.Duration `yaml:"state_timeout"`         // bound on waiting for SAFE_OP after mapping
	OpAttempts         int           `yaml:"op_attempts"`           // exchange+check attempts while waiting for OPERATIONAL
	OpCheckTimeout     time.Duration `yaml:"op_check_timeout"`      // state check bound per OPERATIONAL attempt
	MonitorTimeout     time.Duration `yaml:"monitor_timeout"`       // bound on supervisor reconfigure/recover calls
	TargetVelocity     int32         `yaml:"target_velocity"`       // velocity commanded once the drive is enabled
	OpMode             cia402.OpMode `yaml:"op_mode"`               // mode of operation to command
	OpModeVerifyCycles int           `yaml:"op_mode_verify_cycles"` // accepted cycles to wait for the mode to be reported back
	IOMapSize          int           `yaml:"iomap_size"`            // process data image size in bytes
	Pacing             string        `yaml:"pacing"`                // cyclic loop pacing policy
	MonitoringPort     int           `yaml:"monitoring_port"`       // port for the json monitoring endpoint, 0 disables
	Mlock              bool          `yaml:"mlock"`                 // lock process memory before the cyclic phase
	Emulate            bool          `yaml:"emulate"`               // run against the emulated bus instead of hardware
	Health             HealthConfig  `yaml:"health"`
}

// DefaultConfig returns Config initialized with default values
func DefaultConfig() *Config {
	return &Config{
		DrivePosition:      1,
		Cycles:             10000,
		Interval:           5 * time.Millisecond,
		ReceiveTimeout:     master.TimeoutReturn,
		SupervisorInterval: 10 * time.Millisecond,
		StateTimeout:       4 * master.TimeoutState,
		OpAttempts:         200,
		OpCheckTimeout:     50 * time.Millisecond,
		MonitorTimeout:     master.TimeoutMonitor,
		TargetVelocity:     100,
		OpMode:             cia402.OpModeCSV,
		OpModeVerifyCycles: 100,
		IOMapSize:          4096,
		Pacing:             pacingSleep,
		MonitoringPort:     4280,
		Health: HealthConfig{
			Jitter:        HealthDefaultJitter,
			VelocityError: HealthDefaultVelocityError,
			History:       HealthDefaultHistory,
		},
	}
}

// Validate config is sane
func (c *Config) Validate() error {
	if c.Iface == "" {
		return fmt.Errorf("iface must be specified")
	}
	if c.DrivePosition < 1 {
		return fmt.Errorf("drive_position must be 1 or greater")
	}
	if c.Cycles <= 0 {
		return fmt.Errorf("cycles must be greater than zero")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be greater than zero")
	}
	if c.ReceiveTimeout <= 0 || c.ReceiveTimeout >= c.Interval {
		return fmt.Errorf("receive_timeout must be greater than zero but less than interval")
	}
	if c.SupervisorInterval <= 0 {
		return fmt.Errorf("supervisor_interval must be greater than zero")
	}
	if c.StateTimeout <= 0 {
		return fmt.Errorf("state_timeout must be greater than zero")
	}
	if c.OpAttempts <= 0 {
		return fmt.Errorf("op_attempts must be greater than zero")
	}
	if c.OpCheckTimeout <= 0 {
		return fmt.Errorf("op_check_timeout must be greater than zero")
	}
	if c.MonitorTimeout <= 0 {
		return fmt.Errorf("monitor_timeout must be greater than zero")
	}
	if c.OpModeVerifyCycles < 0 {
		return fmt.Errorf("op_mode_verify_cycles must be 0 or positive")
	}
	if c.IOMapSize < somanet.OutputsSize+somanet.InputsSize {
		return fmt.Errorf("iomap_size must fit at least one drive (%d bytes)", somanet.OutputsSize+somanet.InputsSize)
	}
	if c.Pacing != pacingSleep && c.Pacing != pacingDeadline {
		return fmt.Errorf("pacing must be either %q or %q", pacingSleep, pacingDeadline)
	}
	if c.MonitoringPort < 0 {
		return fmt.Errorf("monitoring_port must be 0 or positive")
	}
	if err := c.Health.Validate(); err != nil {
		return fmt.Errorf("invalid health config: %w", err)
	}
	return nil
}

// ReadConfig reads config from the file
func ReadConfig(path string) (*Config, error) {
	c := DefaultConfig()
	cData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(cData, &c)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// PrepareConfig prepares final version of config based on defaults, CLI flags and on-disk config, and validates resulting config
func PrepareConfig(cfgPath string, iface string, cycles int, interval time.Duration, monitoringPort int, emulate bool, setFlags map[string]bool) (*Config, error) {
	cfg := DefaultConfig()
	var err error
	warn := func(name string) {
		log.Warningf("overriding %s from CLI flag", name)
	}
	if cfgPath != "" {
		cfg, err = ReadConfig(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("reading config from %q: %w", cfgPath, err)
		}
	}
	if iface != "" {
		if cfg.Iface != "" && cfg.Iface != iface {
			warn("iface")
		}
		cfg.Iface = iface
	}
	if setFlags["cycles"] {
		warn("cycles")
		cfg.Cycles = cycles
	}
	if setFlags["interval"] {
		warn("interval")
		cfg.Interval = interval
	}
	if setFlags["monitoringport"] {
		warn("monitoringport")
		cfg.MonitoringPort = monitoringPort
	}
	if setFlags["emulate"] {
		cfg.Emulate = emulate
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	log.Debugf("config: %+v", cfg)
	return cfg, nil
}
