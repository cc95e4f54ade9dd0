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
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/facebook/ethercat/master"
	"github.com/facebook/ethercat/somanet"
)

// healthInterval is how often health expressions are evaluated over the
// sample window
const healthInterval = time.Second

// stopRampCycles bounds how many exchanges we give the quick stop ramp
// during shutdown
const stopRampCycles = 20

// activeGroup is the slave group this commander runs. The stack maps all
// slaves into group 0, the supervisor skips slaves parked elsewhere.
const activeGroup = 0

// Commander drives one SOMANET servo drive over EtherCAT: it brings the
// bus up, runs the cyclic process data exchange that walks the drive
// through the power state machine to the velocity setpoint, and
// supervises the link concurrently.
type Commander struct {
	cfg    *Config
	m      master.Master
	stats  StatsServer
	state  *linkState
	drive  *driveController
	health *Math
}

// NewCommander initializes a Commander from config. With cfg.Emulate the
// bus is emulated in process, otherwise the linked in master stack is
// opened on cfg.Iface.
func NewCommander(cfg *Config, stats StatsServer) (*Commander, error) {
	m, err := openMaster(cfg)
	if err != nil {
		return nil, err
	}
	health := &Math{
		Jitter:        cfg.Health.Jitter,
		VelocityError: cfg.Health.VelocityError,
	}
	if err := health.Prepare(); err != nil {
		return nil, fmt.Errorf("preparing health expressions: %w", err)
	}
	return &Commander{
		cfg:    cfg,
		m:      m,
		stats:  stats,
		state:  newLinkState(cfg.Health.History),
		drive:  newDriveController(cfg.OpMode, cfg.TargetVelocity),
		health: health,
	}, nil
}

func openMaster(cfg *Config) (master.Master, error) {
	if cfg.Emulate {
		log.Warning("running against an emulated bus, no hardware will be touched")
		return somanet.NewEmulator(cfg.DrivePosition), nil
	}
	if err := checkIface(cfg.Iface); err != nil {
		return nil, err
	}
	m, err := master.Open(cfg.Iface)
	if err != nil {
		return nil, fmt.Errorf("opening master stack: %w", err)
	}
	return m, nil
}

// Run executes one full session: bus bringup, then the cyclic exchange
// with the supervisor and health evaluation alongside, then a controlled
// stop. It returns once the configured cycle count is done, ctx is
// cancelled or the bus fails.
func (c *Commander) Run(ctx context.Context) error {
	if c.cfg.Mlock {
		lockMemory()
	}
	log.Infof("starting commander on %s", c.cfg.Iface)
	if err := c.m.Init(c.cfg.Iface); err != nil {
		return fmt.Errorf("no socket connection on %s: %w", c.cfg.Iface, err)
	}
	defer c.m.Close()
	defer log.Info("commander done")

	if err := c.bringup(ctx); err != nil {
		if errors.Is(err, errOperationalTimeout) {
			c.requestInit()
		}
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		// the cyclic loop finishing its cycle budget ends the session
		defer cancel()
		return c.runCyclic(ctx)
	})
	eg.Go(func() error {
		return c.runSupervisor(ctx)
	})
	eg.Go(func() error {
		return c.runHealth(ctx)
	})
	err := eg.Wait()
	c.stopDrive()
	c.requestInit()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return err
}

// runHealth periodically evaluates the health expressions over the
// recent cycle samples and exports the results
func (c *Commander) runHealth(ctx context.Context) error {
	timer := time.NewTimer(healthInterval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Debug("cancelled health loop")
			return ctx.Err()
		case <-timer.C:
			timer.Reset(healthInterval)
			samples := c.state.takeSamples(c.cfg.Health.History)
			if len(samples) == 0 {
				continue
			}
			jitter, err := c.health.JitterValue(samples)
			if err != nil {
				log.Warningf("evaluating cycle jitter: %v", err)
				continue
			}
			velErr, err := c.health.VelocityErrorValue(samples)
			if err != nil {
				log.Warningf("evaluating velocity error: %v", err)
				continue
			}
			c.stats.SetCounter("ecdrive.health.jitter_ns", int64(jitter))
			c.stats.SetCounter("ecdrive.health.velocity_error", int64(velErr))
			log.Debugf("health: cycle jitter %.0fns, velocity error %.1f over %d samples", jitter, velErr, len(samples))
		}
	}
}

// stopDrive ramps the drive to standstill with a quick stop and removes
// power, best effort
func (c *Commander) stopDrive() {
	if !c.state.operational() {
		return
	}
	c.state.setOperational(false)
	log.Info("stopping drive")
	in := &somanet.Inputs{}
	c.drive.quickStop()
	for i := 0; i < stopRampCycles; i++ {
		if !c.exchangeCommand() {
			return
		}
		if err := in.UnmarshalBinary(c.m.Inputs(c.cfg.DrivePosition)); err == nil && in.VelocityValue == 0 {
			break
		}
		time.Sleep(c.cfg.Interval)
	}
	c.drive.disableVoltage()
	c.exchangeCommand()
}

// exchangeCommand pushes the current drive command through one process
// data exchange, reporting whether the exchange went through
func (c *Commander) exchangeCommand() bool {
	if _, err := c.drive.outputs().MarshalBinaryTo(c.m.Outputs(c.cfg.DrivePosition)); err != nil {
		return false
	}
	if err := c.m.SendProcessData(); err != nil {
		return false
	}
	c.m.ReceiveProcessData(c.cfg.ReceiveTimeout)
	return true
}

// requestInit parks all slaves back in INIT
func (c *Commander) requestInit() {
	log.Info("requesting INIT state for all slaves")
	c.m.SetState(0, master.StateInit)
	if err := c.m.WriteState(0); err != nil {
		log.Warningf("requesting INIT state: %v", err)
	}
}
