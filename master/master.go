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

/*
Package master describes what we expect from an EtherCAT master stack:
binding to a NIC, enumerating slaves, mapping process data, moving slaves
between application layer states and exchanging process data frames.

The stack itself lives outside of this repository. Consumers program
against the Master interface, real bindings register themselves through
Open, and the somanet package ships an emulated bus implementing the same
interface for development and tests.
*/
package master

import (
	"errors"
	"time"
)

// stack timeouts, defaults of the usual master implementations
const (
	// TimeoutReturn bounds a single process data round trip
	TimeoutReturn = 2 * time.Millisecond
	// TimeoutState bounds an AL state transition
	TimeoutState = 2 * time.Second
	// TimeoutMonitor bounds supervision requests to a single slave
	TimeoutMonitor = 500 * time.Microsecond
	// TimeoutMailbox bounds an SDO mailbox round trip
	TimeoutMailbox = 700 * time.Millisecond
)

// ErrNoStack is returned by Open when no master stack binding is linked in
var ErrNoStack = errors.New("no fieldbus master stack linked in")

// ALState is an EtherCAT application layer state, with the error flag
// folded into the high nibble the way slaves report it
type ALState uint16

const (
	// StateNone means no valid state could be read, the slave is gone
	StateNone ALState = 0x00
	// StateInit is the INIT state
	StateInit ALState = 0x01
	// StatePreOP is the PRE-Operational state
	StatePreOP ALState = 0x02
	// StateBoot is the Bootstrap state
	StateBoot ALState = 0x03
	// StateSafeOP is the Safe-Operational state, inputs valid and outputs ignored
	StateSafeOP ALState = 0x04
	// StateOperational is the Operational state, full process data exchange
	StateOperational ALState = 0x08
	// StateACK acknowledges an error when requested, same bit reports one when read
	StateACK ALState = 0x10
	// StateError flags an AL error alongside the base state
	StateError ALState = 0x10
)

var stateToString = map[ALState]string{
	StateNone:        "NONE",
	StateInit:        "INIT",
	StatePreOP:       "PRE_OP",
	StateBoot:        "BOOT",
	StateSafeOP:      "SAFE_OP",
	StateOperational: "OPERATIONAL",
}

func (s ALState) String() string {
	if s&StateError != 0 {
		base, found := stateToString[s&^StateError]
		if !found {
			return "UNSUPPORTED VALUE"
		}
		if base == "NONE" {
			return "ERROR"
		}
		return base + "+ERROR"
	}
	res, found := stateToString[s]
	if !found {
		return "UNSUPPORTED VALUE"
	}
	return res
}

// Base strips the error flag off the state
func (s ALState) Base() ALState {
	return s &^ StateError
}

// HasError reports whether the error flag is set
func (s ALState) HasError() bool {
	return s&StateError != 0
}

// Slave is a point in time snapshot of one slave's identity and link state
type Slave struct {
	Pos          int
	Name         string
	State        ALState
	ALStatusCode uint16
	Group        int
	OutputBytes  int
	InputBytes   int
	HasDC        bool
}

// Group describes one logical slave group and the working counters of its
// process data image
type Group struct {
	OutputsWKC int
	InputsWKC  int
}

// ExpectedWKC is the working counter of a fully healthy exchange: outputs
// are written and read back, inputs only read
func (g Group) ExpectedWKC() int {
	return g.OutputsWKC*2 + g.InputsWKC
}

// Master is the surface we consume from an EtherCAT master stack.
// Slave positions are 1-based bus order, position 0 addresses all slaves
// at once (and aggregates the whole bus in Slave and the process data
// views).
type Master interface {
	// Init binds the stack to a network interface
	Init(iface string) error
	// ConfigInit enumerates and configures slaves, returning how many were found
	ConfigInit() (int, error)
	// ConfigMap maps the process data of all slaves into iomap and returns the mapped size
	ConfigMap(iomap []byte) (int, error)
	// ConfigDC configures distributed clock synchronization
	ConfigDC() error
	// SlaveCount is the number of slaves found by ConfigInit
	SlaveCount() int
	// Slave returns a snapshot of slave pos
	Slave(pos int) Slave
	// SetState stages a requested AL state for slave pos
	SetState(pos int, state ALState)
	// WriteState pushes the staged state of slave pos to the bus
	WriteState(pos int) error
	// CheckState polls slave pos until it reports want or timeout passes,
	// returning the last state seen
	CheckState(pos int, want ALState, timeout time.Duration) ALState
	// ReadStates refreshes the AL state of every slave and returns the lowest
	ReadStates() ALState
	// SendProcessData queues one process data frame on the wire
	SendProcessData() error
	// ReceiveProcessData collects the frame sent last and returns the
	// working counter of the exchange
	ReceiveProcessData(timeout time.Duration) int
	// Reconfig reinitializes a slave that fell out of OPERATIONAL,
	// reporting whether it came back
	Reconfig(pos int, timeout time.Duration) bool
	// Recover recovers a slave that vanished from the bus, reporting
	// whether it was found again
	Recover(pos int, timeout time.Duration) bool
	// Inputs exposes the mapped input process data of slave pos
	Inputs(pos int) []byte
	// Outputs exposes the mapped output process data of slave pos
	Outputs(pos int) []byte
	// Group returns group n of the current configuration
	Group(n int) Group
	// ReadSDO reads an object dictionary entry over the mailbox
	ReadSDO(pos int, index uint16, sub uint8, timeout time.Duration) ([]byte, error)
	// DCTime is the distributed clock time captured with the last exchange
	DCTime() int64
	// Close releases the NIC binding
	Close()
}

// Open binds a Master to a network interface. The default returns
// ErrNoStack, stack binding packages replace it from their init().
var Open = func(iface string) (Master, error) {
	return nil, ErrNoStack
}
