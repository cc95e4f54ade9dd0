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
	"sync"

	"github.com/facebook/ethercat/drivectl/stats"
)

// StatsServer is a stats server interface
type StatsServer interface {
	// Reset atomically sets all the counters to 0
	Reset()
	SetCounter(key string, val int64)
	UpdateCounterBy(key string, count int64)
	SetDeviceStats(stat *stats.Device)
}

// Stats is an implementation of StatsServer
type Stats struct {
	mux      sync.Mutex
	counters map[string]int64
	devices  stats.Devices
}

// NewStats created new instance of Stats
func NewStats() *Stats {
	return &Stats{
		counters: map[string]int64{},
		devices:  stats.Devices{},
	}
}

// UpdateCounterBy will increment counter
func (s *Stats) UpdateCounterBy(key string, count int64) {
	s.mux.Lock()
	s.counters[key] += count
	s.mux.Unlock()
}

// SetCounter will set a counter to the provided value.
func (s *Stats) SetCounter(key string, val int64) {
	s.mux.Lock()
	s.counters[key] = val
	s.mux.Unlock()
}

// GetCounters returns a map of counters
func (s *Stats) GetCounters() map[string]int64 {
	ret := make(map[string]int64)
	s.mux.Lock()
	for key, val := range s.counters {
		ret[key] = val
	}
	s.mux.Unlock()
	return ret
}

// GetDeviceStats returns all device stats
func (s *Stats) GetDeviceStats() stats.Devices {
	ret := make(stats.Devices, len(s.devices))
	s.mux.Lock()
	copy(ret, s.devices)
	s.mux.Unlock()
	return ret
}

// Reset all the values of counters
func (s *Stats) Reset() {
	s.mux.Lock()
	for k := range s.counters {
		s.counters[k] = 0
	}
	s.mux.Unlock()
}

// SetDeviceStats sets stats for a particular device
func (s *Stats) SetDeviceStats(stat *stats.Device) {
	s.mux.Lock()
	if i := s.devices.Index(stat); i != -1 {
		s.devices[i] = stat
	} else {
		s.devices = append(s.devices, stat)
	}
	s.mux.Unlock()
}
