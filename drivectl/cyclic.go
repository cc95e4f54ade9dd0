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

	"github.com/facebook/ethercat/drivectl/stats"
	"github.com/facebook/ethercat/master"
	"github.com/facebook/ethercat/somanet"
)

// errOperationalTimeout means at least one slave never reached OPERATIONAL
// during bringup
var errOperationalTimeout = errors.New("not all slaves reached OPERATIONAL state")

// bringup walks the bus from enumeration to full OPERATIONAL: configure
// slaves, map process data, sync distributed clocks, verify the drive
// firmware and push everyone through SAFE_OP into OP.
func (c *Commander) bringup(ctx context.Context) error {
	found, err := c.m.ConfigInit()
	if err != nil {
		return fmt.Errorf("enumerating slaves on %s: %w", c.cfg.Iface, err)
	}
	if found == 0 {
		return fmt.Errorf("no slaves found on %s", c.cfg.Iface)
	}
	log.Infof("%d slaves found and configured", found)
	if c.cfg.DrivePosition > found {
		return fmt.Errorf("drive position %d is beyond the %d slaves found", c.cfg.DrivePosition, found)
	}

	iomap := make([]byte, c.cfg.IOMapSize)
	mapped, err := c.m.ConfigMap(iomap)
	if err != nil {
		return fmt.Errorf("mapping process data: %w", err)
	}
	log.Debugf("mapped %d bytes of process data", mapped)
	if err := c.m.ConfigDC(); err != nil {
		log.Warningf("configuring distributed clocks: %v", err)
	}

	if st := c.m.CheckState(0, master.StateSafeOP, c.cfg.StateTimeout); st != master.StateSafeOP {
		log.Warningf("not all slaves reached SAFE_OP, lowest state %s", st)
	}
	expected := c.m.Group(activeGroup).ExpectedWKC()
	c.state.setExpectedWKC(expected)
	c.stats.SetCounter("ecdrive.wkc.expected", int64(expected))
	log.Infof("calculated workcounter %d", expected)

	fw, err := somanet.CheckFirmware(c.m, c.cfg.DrivePosition)
	if err != nil {
		return err
	}
	log.Infof("drive %d runs firmware %s", c.cfg.DrivePosition, fw)

	// request OPERATIONAL for all slaves, with one priming exchange so
	// outputs are valid before the transition
	c.m.SetState(0, master.StateOperational)
	if err := c.m.SendProcessData(); err != nil {
		return fmt.Errorf("sending process data: %w", err)
	}
	c.m.ReceiveProcessData(c.cfg.ReceiveTimeout)
	if err := c.m.WriteState(0); err != nil {
		return fmt.Errorf("requesting OPERATIONAL state: %w", err)
	}
	st := master.StateNone
	for i := 0; i < c.cfg.OpAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.m.SendProcessData(); err != nil {
			return fmt.Errorf("sending process data: %w", err)
		}
		c.m.ReceiveProcessData(c.cfg.ReceiveTimeout)
		st = c.m.CheckState(0, master.StateOperational, c.cfg.OpCheckTimeout)
		if st == master.StateOperational {
			break
		}
	}
	if st != master.StateOperational {
		c.diagnoseNotOperational()
		return errOperationalTimeout
	}
	log.Info("OPERATIONAL state reached for all slaves")
	c.state.setOperational(true)
	return nil
}

// diagnoseNotOperational logs which slaves are stuck and why
func (c *Commander) diagnoseNotOperational() {
	c.m.ReadStates()
	for pos := 1; pos <= c.m.SlaveCount(); pos++ {
		s := c.m.Slave(pos)
		if s.State == master.StateOperational {
			continue
		}
		log.Errorf("slave %d (%s) state 0x%02x, AL status 0x%04x: %s",
			pos, s.Name, uint16(s.State), s.ALStatusCode, master.ALStatusString(s.ALStatusCode))
		c.state.setDevice(s)
	}
	for _, d := range c.state.deviceStats() {
		c.stats.SetDeviceStats(d)
	}
}

// runCyclic exchanges process data for the configured number of cycles.
// Inputs are decoded and commands advanced only on accepted cycles, a
// degraded exchange leaves the output image untouched for the retry.
func (c *Commander) runCyclic(ctx context.Context) error {
	defer log.Debug("cyclic loop done")
	pace := newPacer(c.cfg.Pacing, c.cfg.Interval)
	inBuf := c.m.Inputs(c.cfg.DrivePosition)
	outBuf := c.m.Outputs(c.cfg.DrivePosition)
	in := &somanet.Inputs{}
	accepted := 0
	modeVerified := false
	var lastCycle time.Time

	for i := 1; i <= c.cfg.Cycles; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.m.SendProcessData(); err != nil {
			return fmt.Errorf("sending process data: %w", err)
		}
		wkc := c.m.ReceiveProcessData(c.cfg.ReceiveTimeout)
		now := time.Now()
		c.state.noteWKC(wkc)
		c.stats.SetCounter("ecdrive.wkc", int64(wkc))
		c.stats.UpdateCounterBy(stats.CyclePrefix+"total", 1)

		_, expected := c.state.wkc()
		if wkc < expected {
			c.stats.UpdateCounterBy(stats.CyclePrefix+"degraded", 1)
			log.Debugf("cycle %4d degraded, wkc %d below %d", i, wkc, expected)
			pace.pace()
			lastCycle = now
			continue
		}
		accepted++
		c.stats.UpdateCounterBy(stats.CyclePrefix+"accepted", 1)
		if err := in.UnmarshalBinary(inBuf); err != nil {
			return fmt.Errorf("decoding inputs of drive %d: %w", c.cfg.DrivePosition, err)
		}
		c.drive.step(in)
		if _, err := c.drive.outputs().MarshalBinaryTo(outBuf); err != nil {
			return fmt.Errorf("encoding outputs of drive %d: %w", c.cfg.DrivePosition, err)
		}
		if !lastCycle.IsZero() {
			c.state.pushSample(&cycleSample{
				wkc:            wkc,
				elapsed:        now.Sub(lastCycle),
				actualVelocity: in.VelocityValue,
				demandVelocity: in.VelocityDemandValue,
			})
		}
		lastCycle = now
		c.exportDriveStats(in)
		log.Infof("cycle %5d, wkc %d, statusword 0x%04x, mode %v, position %10d, velocity %6d, demand %6d, dc %d",
			i, wkc, uint16(in.Statusword), in.OpModeDisplay, in.PositionValue, in.VelocityValue, in.VelocityDemandValue, c.m.DCTime())

		if !modeVerified {
			if in.OpModeDisplay == c.cfg.OpMode {
				modeVerified = true
				log.Debugf("drive reports mode %v after %d accepted cycles", in.OpModeDisplay, accepted)
			} else if accepted == c.cfg.OpModeVerifyCycles {
				log.Warningf("drive still reports mode %v instead of %v after %d accepted cycles",
					in.OpModeDisplay, c.cfg.OpMode, accepted)
			}
		}
		pace.pace()
	}
	return nil
}

func (c *Commander) exportDriveStats(in *somanet.Inputs) {
	c.stats.SetCounter("ecdrive.statusword", int64(in.Statusword))
	c.stats.SetCounter("ecdrive.opmode", int64(in.OpModeDisplay))
	c.stats.SetCounter("ecdrive.position.actual", int64(in.PositionValue))
	c.stats.SetCounter("ecdrive.velocity.actual", int64(in.VelocityValue))
	c.stats.SetCounter("ecdrive.velocity.demand", int64(in.VelocityDemandValue))
	c.stats.SetCounter("ecdrive.torque.actual", int64(in.TorqueValue))
}
