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

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/facebook/ethercat/master"
	"github.com/facebook/ethercat/somanet"
)

func TestSupervisorAcknowledgesError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := master.NewMockMaster(ctrl)
	c, st := newTestCommander(t, testConfig(), m)

	m.EXPECT().ReadStates().Return(master.StateSafeOP | master.StateError)
	m.EXPECT().SlaveCount().Return(1).AnyTimes()
	m.EXPECT().Slave(1).Return(master.Slave{
		Pos:          1,
		Name:         "SOMANET",
		State:        master.StateSafeOP | master.StateError,
		ALStatusCode: 0x001e,
	}).AnyTimes()
	m.EXPECT().SetState(1, master.StateSafeOP|master.StateACK)
	m.EXPECT().WriteState(1).Return(nil)

	c.superviseOnce()

	require.True(t, c.state.recheckPending(), "an acked slave is still not OPERATIONAL, the next sweep must pick it up")
	require.Equal(t, int64(1), st.GetCounters()["ecdrive.supervisor.acked"])
}

func TestSupervisorPromotesSafeOP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := master.NewMockMaster(ctrl)
	c, st := newTestCommander(t, testConfig(), m)

	m.EXPECT().ReadStates().Return(master.StateSafeOP)
	m.EXPECT().SlaveCount().Return(1).AnyTimes()
	m.EXPECT().Slave(1).Return(master.Slave{
		Pos:   1,
		Name:  "SOMANET",
		State: master.StateSafeOP,
	}).AnyTimes()
	m.EXPECT().SetState(1, master.StateOperational)
	m.EXPECT().WriteState(1).Return(nil)

	c.superviseOnce()

	require.True(t, c.state.recheckPending())
	require.Equal(t, int64(1), st.GetCounters()["ecdrive.supervisor.promoted"])
}

func TestSupervisorReconfiguresPartialLink(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := master.NewMockMaster(ctrl)
	cfg := testConfig()
	c, st := newTestCommander(t, cfg, m)

	m.EXPECT().ReadStates().Return(master.StatePreOP)
	m.EXPECT().SlaveCount().Return(1).AnyTimes()
	m.EXPECT().Slave(1).Return(master.Slave{
		Pos:   1,
		Name:  "SOMANET",
		State: master.StatePreOP,
	}).AnyTimes()
	m.EXPECT().Reconfig(1, cfg.MonitorTimeout).Return(true)

	c.superviseOnce()

	require.False(t, c.state.isLost(1))
	require.Equal(t, int64(1), st.GetCounters()["ecdrive.supervisor.reconfigured"])
}

func TestSupervisorMarksSlaveLost(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := master.NewMockMaster(ctrl)
	cfg := testConfig()
	c, st := newTestCommander(t, cfg, m)

	gone := master.Slave{Pos: 1, Name: "SOMANET", State: master.StateNone}
	m.EXPECT().ReadStates().Return(master.StateNone)
	m.EXPECT().SlaveCount().Return(1).AnyTimes()
	m.EXPECT().Slave(1).Return(gone).AnyTimes()
	m.EXPECT().CheckState(1, master.StateOperational, master.TimeoutReturn).Return(master.StateNone)
	// once marked lost the same sweep already tries to get it back
	m.EXPECT().Recover(1, cfg.MonitorTimeout).Return(false)

	c.superviseOnce()

	require.True(t, c.state.isLost(1))
	require.Equal(t, int64(1), st.GetCounters()["ecdrive.supervisor.lost"])
}

func TestSupervisorRecoversLostSlave(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := master.NewMockMaster(ctrl)
	cfg := testConfig()
	c, st := newTestCommander(t, cfg, m)
	c.state.setLost(1, true)

	gone := master.Slave{Pos: 1, Name: "SOMANET", State: master.StateNone}
	m.EXPECT().ReadStates().Return(master.StateNone)
	m.EXPECT().SlaveCount().Return(1).AnyTimes()
	m.EXPECT().Slave(1).Return(gone).AnyTimes()
	m.EXPECT().Recover(1, cfg.MonitorTimeout).Return(true)

	c.superviseOnce()

	require.False(t, c.state.isLost(1))
	require.Equal(t, int64(1), st.GetCounters()["ecdrive.supervisor.recovered"])
}

func TestSupervisorFindsReappearedSlave(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := master.NewMockMaster(ctrl)
	c, st := newTestCommander(t, testConfig(), m)
	c.state.setLost(1, true)

	m.EXPECT().ReadStates().Return(master.StateOperational)
	m.EXPECT().SlaveCount().Return(1).AnyTimes()
	m.EXPECT().Slave(1).Return(master.Slave{
		Pos:   1,
		Name:  "SOMANET",
		State: master.StateOperational,
	}).AnyTimes()

	c.superviseOnce()

	require.False(t, c.state.isLost(1))
	require.False(t, c.state.recheckPending())
	require.Equal(t, int64(1), st.GetCounters()["ecdrive.supervisor.found"])
}

// slaves parked in another group are not ours to nudge: the sweep must
// pass over them without issuing transitions or recording them
func TestSupervisorIgnoresOtherGroup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := master.NewMockMaster(ctrl)
	c, _ := newTestCommander(t, testConfig(), m)

	m.EXPECT().ReadStates().Return(master.StateSafeOP)
	m.EXPECT().SlaveCount().Return(2).AnyTimes()
	m.EXPECT().Slave(1).Return(master.Slave{
		Pos:   1,
		Name:  "SOMANET",
		State: master.StateOperational,
	}).AnyTimes()
	// stuck in SAFE_OP but in a foreign group, gomock fails the test on
	// any SetState/WriteState/Reconfig aimed at it
	m.EXPECT().Slave(2).Return(master.Slave{
		Pos:   2,
		Name:  "SOMANET",
		State: master.StateSafeOP,
		Group: 1,
	}).AnyTimes()

	c.superviseOnce()

	require.False(t, c.state.recheckPending())
	devices := c.state.deviceStats()
	require.Equal(t, 1, len(devices))
	require.Equal(t, 1, devices[0].Position)
}

// a sweep over an unchanged bus must not re-issue transition requests
// that were already satisfied, and must leave the record table identical
func TestSupervisorSweepIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := master.NewMockMaster(ctrl)
	c, _ := newTestCommander(t, testConfig(), m)

	healthy := master.Slave{Pos: 1, Name: "SOMANET", State: master.StateOperational}
	stuck := master.Slave{Pos: 2, Name: "SOMANET", State: master.StateSafeOP}

	// first sweep: slave 2 is in SAFE_OP, gets promoted
	m.EXPECT().ReadStates().Return(master.StateSafeOP)
	m.EXPECT().SlaveCount().Return(2).AnyTimes()
	m.EXPECT().Slave(1).Return(healthy).AnyTimes()
	first := m.EXPECT().Slave(2).Return(stuck).Times(2)
	m.EXPECT().SetState(2, master.StateOperational)
	m.EXPECT().WriteState(2).Return(nil)
	c.superviseOnce()
	require.True(t, c.state.recheckPending())

	// the promotion took, from now on the bus reads all OPERATIONAL and
	// further sweeps issue nothing (gomock fails the test on any
	// unexpected SetState/WriteState/Reconfig/Recover call)
	promoted := master.Slave{Pos: 2, Name: "SOMANET", State: master.StateOperational}
	m.EXPECT().ReadStates().Return(master.StateOperational).Times(2)
	m.EXPECT().Slave(2).Return(promoted).AnyTimes().After(first)

	c.superviseOnce()
	require.False(t, c.state.recheckPending())
	second := c.state.deviceStats()

	c.superviseOnce()
	require.False(t, c.state.recheckPending())
	require.Equal(t, second, c.state.deviceStats(), "a sweep with no link change must leave the records alone")
}

// full round trip against the emulated bus: a slave falls back to
// SAFE_OP mid-session and the supervisor brings it home
func TestSupervisorRecoversDegradedBus(t *testing.T) {
	cfg := testConfig()
	c, st := newTestCommander(t, cfg, somanet.NewEmulator(1))
	e := c.m.(*somanet.Emulator)

	require.NoError(t, c.m.Init(cfg.Iface))
	require.NoError(t, c.bringup(context.Background()))

	e.DegradeSlave(1, master.StateSafeOP, 0x001a)
	c.m.SendProcessData()
	wkc := c.m.ReceiveProcessData(cfg.ReceiveTimeout)
	c.state.noteWKC(wkc)
	require.True(t, c.state.needsSupervision(), "a short working counter must wake the supervisor")

	c.superviseOnce()
	require.Equal(t, master.StateOperational, e.Slave(1).State)
	require.Equal(t, int64(1), st.GetCounters()["ecdrive.supervisor.promoted"])

	// next exchange is whole again, the follow-up sweep reports all clear
	c.m.SendProcessData()
	c.state.noteWKC(c.m.ReceiveProcessData(cfg.ReceiveTimeout))
	c.superviseOnce()
	require.False(t, c.state.recheckPending())
	devices := st.GetDeviceStats()
	require.Equal(t, 1, len(devices))
	require.True(t, devices[0].Operational)
}
