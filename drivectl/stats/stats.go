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

// Package stats provides the monitoring structs the commander exports
// over its JSON endpoint, fetch helpers for them, and a Prometheus
// exporter built on top.
package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// counter key prefixes
const (
	// CyclePrefix covers counters produced by the cyclic loop
	CyclePrefix = "ecdrive.cycles."
	// SupervisorPrefix covers counters produced by the supervisor
	SupervisorPrefix = "ecdrive.supervisor."
)

// Device is a representation of a monitoring struct for one bus device
type Device struct {
	Position     int    `json:"position"`
	Name         string `json:"name"`
	Group        int    `json:"group"`
	State        string `json:"state"`
	ALStatusCode uint16 `json:"al_status_code"`
	StatusText   string `json:"status_text"`
	Operational  bool   `json:"operational"`
	Lost         bool   `json:"lost"`
}

// Devices is a list of Device
type Devices []*Device

func (s Devices) Len() int { return len(s) }
func (s Devices) Less(i, j int) bool {
	return s[i].Position < s[j].Position
}
func (s Devices) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

// Index returns the index of the e if it's already in s. Otherwise -1
func (s Devices) Index(e *Device) int {
	for i, a := range s {
		if a.Position == e.Position {
			return i
		}
	}
	return -1
}

// Counters is various counters exported by the commander
type Counters map[string]int64

// CycleStats returns the counters produced by the cyclic loop, prefix stripped
func (c Counters) CycleStats() map[string]int64 {
	res := map[string]int64{}
	for k, v := range c {
		if strings.HasPrefix(k, CyclePrefix) {
			res[strings.TrimPrefix(k, CyclePrefix)] = v
		}
	}
	return res
}

// SysStats returns everything that is not loop counters
func (c Counters) SysStats() map[string]int64 {
	res := map[string]int64{}
	for k, v := range c {
		if strings.HasPrefix(k, CyclePrefix) {
			continue
		}
		if strings.HasPrefix(k, SupervisorPrefix) {
			continue
		}
		res[k] = v
	}
	return res
}

// FetchDevices returns populated Devices structure fetched from the url
func FetchDevices(url string) (Devices, error) {
	c := http.Client{
		Timeout: time.Second * 2,
	}

	resp, err := c.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var s Devices
	err = json.Unmarshal(b, &s)

	return s, err
}

// FetchCounters returns counters map fetched from the url
func FetchCounters(url string) (Counters, error) {
	counters := make(Counters)
	url = fmt.Sprintf("%s/counters", url)
	c := http.Client{
		Timeout: time.Second * 2,
	}

	resp, err := c.Get(url)
	if err != nil {
		return counters, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return counters, err
	}
	err = json.Unmarshal(b, &counters)
	return counters, err
}
