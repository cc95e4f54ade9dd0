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

package cia402

import "fmt"

// Statusword is the status word a drive reports in object 0x6041
type Statusword uint16

// Statusword flag bits outside of the power state machine
const (
	StatuswordVoltageEnabled Statusword = 1 << 4
	StatuswordWarning        Statusword = 1 << 7
	StatuswordRemote         Statusword = 1 << 9
	StatuswordTargetReached  Statusword = 1 << 10
	StatuswordInternalLimit  Statusword = 1 << 11
)

// VoltageEnabled reports whether high voltage is applied to the drive
func (s Statusword) VoltageEnabled() bool {
	return s&StatuswordVoltageEnabled != 0
}

// Warning reports whether the drive raised a warning
func (s Statusword) Warning() bool {
	return s&StatuswordWarning != 0
}

// Remote reports whether the drive accepts commands over the bus
func (s Statusword) Remote() bool {
	return s&StatuswordRemote != 0
}

// TargetReached reports whether the drive reached its commanded target
func (s Statusword) TargetReached() bool {
	return s&StatuswordTargetReached != 0
}

// InternalLimitActive reports whether an internal limit clamps the command
func (s Statusword) InternalLimitActive() bool {
	return s&StatuswordInternalLimit != 0
}

// Controlword is the control word we command in object 0x6040
type Controlword uint16

// Controlword bits
const (
	ControlwordSwitchOnBit        Controlword = 1 << 0
	ControlwordEnableVoltageBit   Controlword = 1 << 1
	ControlwordQuickStopBit       Controlword = 1 << 2
	ControlwordEnableOperationBit Controlword = 1 << 3
	ControlwordFaultResetBit      Controlword = 1 << 7
	ControlwordHaltBit            Controlword = 1 << 8
)

// Controlword commands driving the power state machine
const (
	ControlwordDisableVoltage  Controlword = 0x0000
	ControlwordQuickStop       Controlword = 0x0002
	ControlwordShutdown        Controlword = 0x0006
	ControlwordSwitchOn        Controlword = 0x0007
	ControlwordEnableOperation Controlword = 0x000F
	ControlwordFaultReset      Controlword = 0x0080
)

// State is a named CiA 402 power state
type State int

const (
	StateUnknown State = iota
	StateNotReadyToSwitchOn
	StateSwitchOnDisabled
	StateReadyToSwitchOn
	StateSwitchedOn
	StateOperationEnabled
	StateQuickStopActive
	StateFaultReactionActive
	StateFault
)

var stateToString = map[State]string{
	StateUnknown:             "UNKNOWN",
	StateNotReadyToSwitchOn:  "NOT_READY_TO_SWITCH_ON",
	StateSwitchOnDisabled:    "SWITCH_ON_DISABLED",
	StateReadyToSwitchOn:     "READY_TO_SWITCH_ON",
	StateSwitchedOn:          "SWITCHED_ON",
	StateOperationEnabled:    "OPERATION_ENABLED",
	StateQuickStopActive:     "QUICK_STOP_ACTIVE",
	StateFaultReactionActive: "FAULT_REACTION_ACTIVE",
	StateFault:               "FAULT",
}

func (s State) String() string {
	res, found := stateToString[s]
	if !found {
		return "UNSUPPORTED VALUE"
	}
	return res
}

// stateTable maps statusword mask/pattern pairs to power states.
// Checked in order, first match wins. The patterns are mutually
// exclusive under their masks, which keeps the decode unambiguous.
var stateTable = []struct {
	mask    Statusword
	pattern Statusword
	state   State
}{
	{0x004f, 0x0008, StateFault},
	{0x004f, 0x0040, StateSwitchOnDisabled},
	{0x006f, 0x0021, StateReadyToSwitchOn},
	{0x006f, 0x0023, StateSwitchedOn},
	{0x006f, 0x0027, StateOperationEnabled},
	{0x004f, 0x0000, StateNotReadyToSwitchOn},
	{0x006f, 0x0007, StateQuickStopActive},
	{0x004f, 0x000f, StateFaultReactionActive},
}

// State decodes the power state encoded in the statusword
func (s Statusword) State() State {
	for _, e := range stateTable {
		if s&e.mask == e.pattern {
			return e.state
		}
	}
	return StateUnknown
}

// enableSequence is the controlword that moves each state one step
// closer to Operation Enabled
var enableSequence = map[State]Controlword{
	StateFault:            ControlwordFaultReset,
	StateSwitchOnDisabled: ControlwordShutdown,
	StateReadyToSwitchOn:  ControlwordSwitchOn,
	StateSwitchedOn:       ControlwordEnableOperation,
}

// NextControlword returns the controlword that advances the drive from
// the given state towards Operation Enabled. ok is false when no
// controlword applies: the drive is already enabled, mid-transition, or
// the state is unknown.
func NextControlword(s State) (Controlword, bool) {
	cw, ok := enableSequence[s]
	return cw, ok
}

// OpMode is a mode of operation commanded in object 0x6060 and reported
// back in object 0x6061
type OpMode int8

// modes of operation from CiA 402
const (
	OpModeNone            OpMode = 0
	OpModeProfilePosition OpMode = 1
	OpModeProfileVelocity OpMode = 3
	OpModeProfileTorque   OpMode = 4
	OpModeHoming          OpMode = 6
	OpModeCSP             OpMode = 8
	OpModeCSV             OpMode = 9
	OpModeCST             OpMode = 10
)

var opModeToString = map[OpMode]string{
	OpModeNone:            "NONE",
	OpModeProfilePosition: "PP",
	OpModeProfileVelocity: "PV",
	OpModeProfileTorque:   "PT",
	OpModeHoming:          "HM",
	OpModeCSP:             "CSP",
	OpModeCSV:             "CSV",
	OpModeCST:             "CST",
}

func (m OpMode) String() string {
	res, found := opModeToString[m]
	if !found {
		return "UNSUPPORTED VALUE"
	}
	return res
}

// UnmarshalYAML parses OpMode from yaml config, accepting the short
// mode name or the raw mode number
func (m *OpMode) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err == nil {
		return m.UnmarshalText([]byte(name))
	}
	var raw int8
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*m = OpMode(raw)
	return nil
}

// UnmarshalText parses OpMode from a config string
func (m *OpMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "PP":
		*m = OpModeProfilePosition
	case "PV":
		*m = OpModeProfileVelocity
	case "PT":
		*m = OpModeProfileTorque
	case "HM":
		*m = OpModeHoming
	case "CSP":
		*m = OpModeCSP
	case "CSV":
		*m = OpModeCSV
	case "CST":
		*m = OpModeCST
	default:
		return fmt.Errorf("op mode %s not supported", string(text))
	}
	return nil
}
