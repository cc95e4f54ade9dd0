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

package master

// AL status codes from ETG.1000.6 Table 110, reported by slaves in
// register 0x0134 when a state transition is refused
var alStatusToString = map[uint16]string{
	0x0000: "No error",
	0x0001: "Unspecified error",
	0x0002: "No memory",
	0x0011: "Invalid requested state change",
	0x0012: "Unknown requested state",
	0x0013: "Bootstrap not supported",
	0x0014: "No valid firmware",
	0x0015: "Invalid mailbox configuration",
	0x0016: "Invalid mailbox configuration",
	0x0017: "Invalid sync manager configuration",
	0x0018: "No valid inputs available",
	0x0019: "No valid outputs",
	0x001a: "Synchronization error",
	0x001b: "Sync manager watchdog",
	0x001c: "Invalid sync manager types",
	0x001d: "Invalid output configuration",
	0x001e: "Invalid input configuration",
	0x001f: "Invalid watchdog configuration",
	0x0020: "Slave needs cold start",
	0x0021: "Slave needs INIT",
	0x0022: "Slave needs PREOP",
	0x0023: "Slave needs SAFEOP",
	0x0024: "Invalid input mapping",
	0x0025: "Invalid output mapping",
	0x0026: "Inconsistent settings",
	0x0027: "Freerun not supported",
	0x0028: "Synchronisation not supported",
	0x0029: "Freerun needs 3buffer mode",
	0x002a: "Background watchdog",
	0x002b: "No valid Inputs and Outputs",
	0x002c: "Fatal sync error",
	0x002d: "No sync error",
	0x0030: "Invalid DC SYNCH configuration",
	0x0031: "Invalid DC latch configuration",
	0x0032: "PLL error",
	0x0033: "DC sync IO error",
	0x0034: "DC sync timeout error",
	0x0035: "DC invalid sync cycle time",
	0x0036: "DC invalid sync0 cycle time",
	0x0037: "DC invalid sync1 cycle time",
	0x0041: "MBX_AOE",
	0x0042: "MBX_EOE",
	0x0043: "MBX_COE",
	0x0044: "MBX_FOE",
	0x0045: "MBX_SOE",
	0x004f: "MBX_VOE",
	0x0050: "EEPROM no access",
	0x0051: "EEPROM error",
	0x0060: "Slave restarted locally",
}

// ALStatusString describes an AL status code for operators
func ALStatusString(code uint16) string {
	if s, found := alStatusToString[code]; found {
		return s
	}
	return "Unknown AL status code"
}
