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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/facebook/ethercat/cia402"
	"github.com/facebook/ethercat/drivectl/stats"
	"github.com/facebook/ethercat/master"
	"github.com/facebook/ethercat/somanet"
)

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Iface = "emu0"
	cfg.Emulate = true
	cfg.Cycles = 60
	cfg.Interval = 500 * time.Microsecond
	cfg.ReceiveTimeout = 200 * time.Microsecond
	cfg.SupervisorInterval = time.Millisecond
	cfg.OpCheckTimeout = time.Millisecond
	cfg.MonitoringPort = 0
	return cfg
}

// newTestCommander wires a Commander to the given master directly,
// bypassing openMaster
func newTestCommander(t *testing.T, cfg *Config, m master.Master) (*Commander, *Stats) {
	st := NewStats()
	health := &Math{
		Jitter:        cfg.Health.Jitter,
		VelocityError: cfg.Health.VelocityError,
	}
	require.NoError(t, health.Prepare())
	return &Commander{
		cfg:    cfg,
		m:      m,
		stats:  st,
		state:  newLinkState(cfg.Health.History),
		drive:  newDriveController(cfg.OpMode, cfg.TargetVelocity),
		health: health,
	}, st
}

func TestCommanderRun(t *testing.T) {
	cfg := testConfig()
	st := NewStats()
	c, err := NewCommander(cfg, st)
	require.NoError(t, err)

	require.NoError(t, c.Run(context.Background()))

	counters := st.GetCounters()
	require.Equal(t, int64(60), counters["ecdrive.cycles.total"])
	require.Equal(t, int64(60), counters["ecdrive.cycles.accepted"])
	_, degraded := counters["ecdrive.cycles.degraded"]
	require.False(t, degraded)
	require.Equal(t, int64(3), counters["ecdrive.wkc.expected"])
	require.Equal(t, int64(3), counters["ecdrive.wkc"])
	require.Equal(t, int64(cia402.OpModeCSV), counters["ecdrive.opmode"])
	require.Equal(t, int64(100), counters["ecdrive.velocity.actual"])
	require.Equal(t, int64(100), counters["ecdrive.velocity.demand"])

	sw := cia402.Statusword(counters["ecdrive.statusword"])
	require.Equal(t, cia402.StateOperationEnabled, sw.State())
	require.True(t, sw.TargetReached())

	// the session parks the bus back in INIT
	e := c.m.(*somanet.Emulator)
	require.Equal(t, master.StateInit, e.Slave(1).State)
}

func TestCommanderRunCancelled(t *testing.T) {
	cfg := testConfig()
	cfg.Cycles = 1000000
	st := NewStats()
	c, err := NewCommander(cfg, st)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	require.NoError(t, c.Run(ctx))

	counters := st.GetCounters()
	require.Greater(t, counters["ecdrive.cycles.total"], int64(0))
	require.Less(t, counters["ecdrive.cycles.total"], int64(1000000))

	e := c.m.(*somanet.Emulator)
	require.Equal(t, master.StateInit, e.Slave(1).State)
}

func TestCommanderRunNoSlaves(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := master.NewMockMaster(ctrl)
	cfg := testConfig()
	cfg.Iface = "eth0"
	c, _ := newTestCommander(t, cfg, m)

	m.EXPECT().Init("eth0").Return(nil)
	m.EXPECT().ConfigInit().Return(0, nil)
	m.EXPECT().Close()

	err := c.Run(context.Background())
	require.ErrorContains(t, err, "no slaves found")
}

func TestCommanderRunOperationalTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := master.NewMockMaster(ctrl)
	cfg := testConfig()
	cfg.Iface = "eth0"
	cfg.OpAttempts = 3
	c, st := newTestCommander(t, cfg, m)

	m.EXPECT().Init("eth0").Return(nil)
	m.EXPECT().ConfigInit().Return(1, nil)
	m.EXPECT().ConfigMap(gomock.Any()).Return(somanet.OutputsSize+somanet.InputsSize, nil)
	m.EXPECT().ConfigDC().Return(nil)
	m.EXPECT().CheckState(0, master.StateSafeOP, gomock.Any()).Return(master.StateSafeOP)
	m.EXPECT().Group(0).Return(master.Group{OutputsWKC: 1, InputsWKC: 1})
	m.EXPECT().ReadSDO(1, somanet.ODSoftwareVersion, uint8(0), gomock.Any()).Return([]byte("v4.2.0"), nil)
	m.EXPECT().SetState(0, master.StateOperational)
	m.EXPECT().SendProcessData().Return(nil).Times(4)
	m.EXPECT().ReceiveProcessData(gomock.Any()).Return(3).Times(4)
	m.EXPECT().WriteState(0).Return(nil)
	// the bus never makes it to OPERATIONAL
	m.EXPECT().CheckState(0, master.StateOperational, gomock.Any()).Return(master.StateSafeOP).Times(3)
	// diagnostics
	m.EXPECT().ReadStates().Return(master.StateSafeOP)
	m.EXPECT().SlaveCount().Return(1).AnyTimes()
	m.EXPECT().Slave(1).Return(master.Slave{
		Pos:          1,
		Name:         "SOMANET",
		State:        master.StateSafeOP,
		ALStatusCode: 0x001b,
	})
	// the failed session still parks the bus in INIT
	m.EXPECT().SetState(0, master.StateInit)
	m.EXPECT().WriteState(0).Return(nil)
	m.EXPECT().Close()

	err := c.Run(context.Background())
	require.ErrorIs(t, err, errOperationalTimeout)

	devices := st.GetDeviceStats()
	require.Equal(t, 1, len(devices))
	require.Equal(t, "SAFE_OP", devices[0].State)
	require.Equal(t, uint16(0x001b), devices[0].ALStatusCode)
	require.False(t, devices[0].Operational)
}

func TestCommanderRunCyclicDegraded(t *testing.T) {
	cfg := testConfig()
	cfg.Cycles = 5
	st := NewStats()
	c, err := NewCommander(cfg, st)
	require.NoError(t, err)
	e := c.m.(*somanet.Emulator)

	require.NoError(t, c.m.Init(cfg.Iface))
	require.NoError(t, c.bringup(context.Background()))

	// the drive falls back to SAFE_OP, every exchange comes back short
	e.DegradeSlave(1, master.StateSafeOP, 0x001a)
	before := append([]byte{}, c.m.Outputs(1)...)

	require.NoError(t, c.runCyclic(context.Background()))

	// degraded cycles never touch the output image
	require.Equal(t, before, append([]byte{}, c.m.Outputs(1)...))
	counters := st.GetCounters()
	require.Equal(t, int64(5), counters["ecdrive.cycles.total"])
	require.Equal(t, int64(5), counters["ecdrive.cycles.degraded"])
	_, accepted := counters["ecdrive.cycles.accepted"]
	require.False(t, accepted)
	require.True(t, c.state.needsSupervision())
}

// a degraded cycle reports the short counter and the cycle totals, and
// nothing else: no accepted count, no drive telemetry
func TestCommanderRunCyclicDegradedStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := master.NewMockMaster(ctrl)
	st := NewMockStatsServer(ctrl)
	cfg := testConfig()
	cfg.Cycles = 1
	health := &Math{
		Jitter:        cfg.Health.Jitter,
		VelocityError: cfg.Health.VelocityError,
	}
	require.NoError(t, health.Prepare())
	c := &Commander{
		cfg:    cfg,
		m:      m,
		stats:  st,
		state:  newLinkState(cfg.Health.History),
		drive:  newDriveController(cfg.OpMode, cfg.TargetVelocity),
		health: health,
	}
	c.state.setExpectedWKC(3)

	m.EXPECT().Inputs(cfg.DrivePosition).Return(make([]byte, somanet.InputsSize))
	m.EXPECT().Outputs(cfg.DrivePosition).Return(make([]byte, somanet.OutputsSize))
	m.EXPECT().SendProcessData().Return(nil)
	m.EXPECT().ReceiveProcessData(cfg.ReceiveTimeout).Return(2)

	st.EXPECT().SetCounter("ecdrive.wkc", int64(2))
	st.EXPECT().UpdateCounterBy(stats.CyclePrefix+"total", int64(1))
	st.EXPECT().UpdateCounterBy(stats.CyclePrefix+"degraded", int64(1))

	require.NoError(t, c.runCyclic(context.Background()))
}
