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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facebook/ethercat/master"
)

func TestLinkStateWKC(t *testing.T) {
	s := newLinkState(10)
	last, expected := s.wkc()
	assert.Equal(t, 0, last)
	assert.Equal(t, 0, expected)

	s.setExpectedWKC(3)
	s.noteWKC(3)
	last, expected = s.wkc()
	assert.Equal(t, 3, last)
	assert.Equal(t, 3, expected)
}

func TestLinkStateNeedsSupervision(t *testing.T) {
	s := newLinkState(10)
	s.setExpectedWKC(3)
	s.noteWKC(3)
	// not operational yet
	assert.False(t, s.needsSupervision())

	s.setOperational(true)
	assert.False(t, s.needsSupervision())

	// short working counter
	s.noteWKC(1)
	assert.True(t, s.needsSupervision())

	// counter recovered but a sweep left work pending
	s.noteWKC(3)
	s.flagRecheck()
	assert.True(t, s.needsSupervision())
	assert.True(t, s.recheckPending())

	s.clearRecheck()
	assert.False(t, s.needsSupervision())
	assert.False(t, s.recheckPending())
}

func TestLinkStateSamples(t *testing.T) {
	s := newLinkState(5)
	for i := 1; i <= 3; i++ {
		s.pushSample(&cycleSample{wkc: i, elapsed: 5 * time.Millisecond})
	}
	samples := s.takeSamples(5)
	require.Equal(t, 3, len(samples))
	// newest first
	assert.Equal(t, 3, samples[0].wkc)
	assert.Equal(t, 2, samples[1].wkc)
	assert.Equal(t, 1, samples[2].wkc)
}

func TestLinkStateSamplesWrap(t *testing.T) {
	s := newLinkState(3)
	for i := 1; i <= 5; i++ {
		s.pushSample(&cycleSample{wkc: i})
	}
	samples := s.takeSamples(3)
	require.Equal(t, 3, len(samples))
	assert.Equal(t, 5, samples[0].wkc)
	assert.Equal(t, 4, samples[1].wkc)
	assert.Equal(t, 3, samples[2].wkc)
}

func TestLinkStateDevices(t *testing.T) {
	s := newLinkState(10)
	s.setDevice(master.Slave{Pos: 2, Name: "SOMANET", State: master.StateSafeOP | master.StateError, ALStatusCode: 0x001b})
	s.setDevice(master.Slave{Pos: 1, Name: "SOMANET", State: master.StateOperational})

	devices := s.deviceStats()
	require.Equal(t, 2, len(devices))
	// sorted by position
	assert.Equal(t, 1, devices[0].Position)
	assert.True(t, devices[0].Operational)
	assert.False(t, devices[0].Lost)

	assert.Equal(t, 2, devices[1].Position)
	assert.Equal(t, "SAFE_OP+ERROR", devices[1].State)
	assert.Equal(t, uint16(0x001b), devices[1].ALStatusCode)
	assert.False(t, devices[1].Operational)

	s.setLost(2, true)
	assert.True(t, s.isLost(2))
	assert.False(t, s.isLost(1))
	// positions we never saw are not lost
	assert.False(t, s.isLost(7))

	devices = s.deviceStats()
	assert.True(t, devices[1].Lost)

	// update in place, no duplicates
	s.setDevice(master.Slave{Pos: 2, Name: "SOMANET", State: master.StateOperational})
	s.setLost(2, false)
	devices = s.deviceStats()
	require.Equal(t, 2, len(devices))
	assert.True(t, devices[1].Operational)
	assert.False(t, devices[1].Lost)
}
