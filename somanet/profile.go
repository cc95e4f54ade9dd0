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

package somanet

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/facebook/ethercat/master"
)

// object dictionary entries we read over SDO
const (
	// ODDeviceName is the manufacturer device name (0x1008)
	ODDeviceName uint16 = 0x1008
	// ODSoftwareVersion is the manufacturer software version (0x100A)
	ODSoftwareVersion uint16 = 0x100a
)

// MinFirmware is the oldest firmware mapping the process data layout this
// package encodes
var MinFirmware = version.Must(version.NewVersion("4.2"))

// ParseFirmware parses version strings the firmware reports,
// like "v4.2.1" or "SOMANET-4.4.0"
func ParseFirmware(s string) (*version.Version, error) {
	s = strings.ToLower(strings.TrimSpace(strings.TrimRight(s, "\x00")))
	s = strings.TrimPrefix(s, "somanet-")
	s = strings.TrimPrefix(s, "v")
	return version.NewVersion(s)
}

// CheckFirmware reads the software version of the drive at pos and
// verifies our process data layout applies to it
func CheckFirmware(m master.Master, pos int) (*version.Version, error) {
	raw, err := m.ReadSDO(pos, ODSoftwareVersion, 0, master.TimeoutMailbox)
	if err != nil {
		return nil, fmt.Errorf("reading software version of slave %d: %w", pos, err)
	}
	v, err := ParseFirmware(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing software version %q of slave %d: %w", string(raw), pos, err)
	}
	if v.LessThan(MinFirmware) {
		return v, fmt.Errorf("slave %d runs firmware %s, older than %s, process data layout differs", pos, v, MinFirmware)
	}
	return v, nil
}
