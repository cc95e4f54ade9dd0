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
	"time"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"

	"github.com/facebook/ethercat/drivectl/stats"
	"github.com/facebook/ethercat/master"
)

// runSupervisor watches the link while the cyclic loop runs. It wakes
// every supervisor interval and sweeps the bus when the last exchange
// came back short or a previous sweep left slaves to re-check.
func (c *Commander) runSupervisor(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Debug("cancelled supervisor loop")
			return ctx.Err()
		case <-timer.C:
			timer.Reset(c.cfg.SupervisorInterval)
			if !c.state.needsSupervision() {
				continue
			}
			c.superviseOnce()
		}
	}
}

// superviseOnce sweeps every slave once, nudging degraded ones back
// towards OPERATIONAL. One sweep performs at most one recovery action
// per slave, a slave that needs more is picked up again next sweep.
func (c *Commander) superviseOnce() {
	c.state.clearRecheck()
	c.m.ReadStates()
	for pos := 1; pos <= c.m.SlaveCount(); pos++ {
		s := c.m.Slave(pos)
		if s.Group != activeGroup {
			continue
		}
		if s.State != master.StateOperational {
			c.state.flagRecheck()
			c.state.setDevice(s)
			switch {
			case s.State == master.StateSafeOP|master.StateError:
				log.Errorf("slave %d is in SAFE_OP+ERROR (AL status 0x%04x: %s), acknowledging",
					pos, s.ALStatusCode, master.ALStatusString(s.ALStatusCode))
				c.m.SetState(pos, master.StateSafeOP|master.StateACK)
				if err := c.m.WriteState(pos); err != nil {
					log.Warningf("acknowledging error of slave %d: %v", pos, err)
				}
				c.stats.UpdateCounterBy(stats.SupervisorPrefix+"acked", 1)
			case s.State == master.StateSafeOP:
				log.Warningf("slave %d is in SAFE_OP, requesting OPERATIONAL", pos)
				c.m.SetState(pos, master.StateOperational)
				if err := c.m.WriteState(pos); err != nil {
					log.Warningf("requesting OPERATIONAL for slave %d: %v", pos, err)
				}
				c.stats.UpdateCounterBy(stats.SupervisorPrefix+"promoted", 1)
			case s.State > master.StateNone:
				if c.m.Reconfig(pos, c.cfg.MonitorTimeout) {
					c.state.setLost(pos, false)
					log.Infof(color.GreenString("slave %d reconfigured", pos))
					c.stats.UpdateCounterBy(stats.SupervisorPrefix+"reconfigured", 1)
				}
			case !c.state.isLost(pos):
				// no valid state read back, make sure it is really gone
				if c.m.CheckState(pos, master.StateOperational, master.TimeoutReturn) == master.StateNone {
					c.state.setLost(pos, true)
					log.Errorf(color.RedString("slave %d lost", pos))
					c.stats.UpdateCounterBy(stats.SupervisorPrefix+"lost", 1)
				}
			}
		}
		if c.state.isLost(pos) {
			if c.m.Slave(pos).State == master.StateNone {
				if c.m.Recover(pos, c.cfg.MonitorTimeout) {
					c.state.setLost(pos, false)
					log.Infof(color.GreenString("slave %d recovered", pos))
					c.stats.UpdateCounterBy(stats.SupervisorPrefix+"recovered", 1)
				}
			} else {
				c.state.setLost(pos, false)
				log.Infof(color.GreenString("slave %d found", pos))
				c.stats.UpdateCounterBy(stats.SupervisorPrefix+"found", 1)
			}
		}
		c.state.setDevice(c.m.Slave(pos))
	}
	if !c.state.recheckPending() {
		log.Info(color.GreenString("all slaves resumed OPERATIONAL"))
	}
	for _, d := range c.state.deviceStats() {
		c.stats.SetDeviceStats(d)
	}
}
