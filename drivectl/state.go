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
	"container/ring"
	"sort"
	"sync"
	"time"

	"github.com/facebook/ethercat/drivectl/stats"
	"github.com/facebook/ethercat/master"
)

// cycleSample is one accepted process data exchange as seen by the cyclic loop
type cycleSample struct {
	wkc            int
	elapsed        time.Duration // time since the previous exchange
	actualVelocity int32
	demandVelocity int32
}

// deviceRecord is the supervisor's view of one slave
type deviceRecord struct {
	pos          int
	name         string
	state        master.ALState
	alStatusCode uint16
	group        int
	lost         bool
}

// state shared between the cyclic loop and the supervisor, guarded by mutex
type linkState struct {
	sync.Mutex

	samples *ring.Ring // cycleSamples of accepted exchanges, for health math

	expectedWKC  int  // 2*outputs+inputs of the group, set once after mapping
	lastWKC      int  // working counter of the latest exchange, written every cycle
	inOP         bool // set once the group reached OPERATIONAL, cleared on teardown
	needsRecheck bool // set by the supervisor while any slave is not OPERATIONAL

	devices map[int]*deviceRecord // per slave link records, written by the supervisor
}

func newLinkState(ringSize int) *linkState {
	s := &linkState{
		samples: ring.New(ringSize),
		devices: map[int]*deviceRecord{},
	}
	// init ring buffer with nils
	for i := 0; i < ringSize; i++ {
		s.samples.Value = nil
		s.samples = s.samples.Next()
	}
	return s
}

func (s *linkState) setExpectedWKC(wkc int) {
	s.Lock()
	defer s.Unlock()
	s.expectedWKC = wkc
}

func (s *linkState) noteWKC(wkc int) {
	s.Lock()
	defer s.Unlock()
	s.lastWKC = wkc
}

func (s *linkState) wkc() (last, expected int) {
	s.Lock()
	defer s.Unlock()
	return s.lastWKC, s.expectedWKC
}

func (s *linkState) setOperational(v bool) {
	s.Lock()
	defer s.Unlock()
	s.inOP = v
}

func (s *linkState) operational() bool {
	s.Lock()
	defer s.Unlock()
	return s.inOP
}

func (s *linkState) flagRecheck() {
	s.Lock()
	defer s.Unlock()
	s.needsRecheck = true
}

func (s *linkState) clearRecheck() {
	s.Lock()
	defer s.Unlock()
	s.needsRecheck = false
}

func (s *linkState) recheckPending() bool {
	s.Lock()
	defer s.Unlock()
	return s.needsRecheck
}

// needsSupervision reports whether the supervisor has anything to do:
// the group is meant to be operational and either the last exchange came
// back short or a previous sweep left work pending
func (s *linkState) needsSupervision() bool {
	s.Lock()
	defer s.Unlock()
	return s.inOP && (s.lastWKC < s.expectedWKC || s.needsRecheck)
}

func (s *linkState) pushSample(sample *cycleSample) {
	s.Lock()
	defer s.Unlock()
	s.samples.Value = sample
	s.samples = s.samples.Next()
}

func (s *linkState) takeSamples(n int) []*cycleSample {
	s.Lock()
	defer s.Unlock()
	result := []*cycleSample{}
	r := s.samples.Prev()
	for j := 0; j < n; j++ {
		if r.Value == nil {
			continue
		}
		result = append(result, r.Value.(*cycleSample))
		r = r.Prev()
	}
	return result
}

func (s *linkState) setDevice(sl master.Slave) {
	s.Lock()
	defer s.Unlock()
	d, found := s.devices[sl.Pos]
	if !found {
		d = &deviceRecord{pos: sl.Pos}
		s.devices[sl.Pos] = d
	}
	d.name = sl.Name
	d.state = sl.State
	d.alStatusCode = sl.ALStatusCode
	d.group = sl.Group
}

func (s *linkState) setLost(pos int, lost bool) {
	s.Lock()
	defer s.Unlock()
	d, found := s.devices[pos]
	if !found {
		d = &deviceRecord{pos: pos}
		s.devices[pos] = d
	}
	d.lost = lost
}

func (s *linkState) isLost(pos int) bool {
	s.Lock()
	defer s.Unlock()
	d, found := s.devices[pos]
	if !found {
		return false
	}
	return d.lost
}

// deviceStats converts the record table into monitoring structs, sorted
// by bus position
func (s *linkState) deviceStats() stats.Devices {
	s.Lock()
	defer s.Unlock()
	result := make(stats.Devices, 0, len(s.devices))
	for _, d := range s.devices {
		result = append(result, &stats.Device{
			Position:     d.pos,
			Name:         d.name,
			Group:        d.group,
			State:        d.state.String(),
			ALStatusCode: d.alStatusCode,
			StatusText:   master.ALStatusString(d.alStatusCode),
			Operational:  d.state == master.StateOperational,
			Lost:         d.lost,
		})
	}
	sort.Sort(result)
	return result
}
