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
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/facebook/ethercat/cia402"
	"github.com/facebook/ethercat/master"
)

// how fast the emulated motor converges on its velocity target, counts per cycle
const emuVelocityStep = 25

// statusword patterns the emulated drive reports per power state, remote
// bit always set, voltage bit where power is applied
var powerToStatusword = map[cia402.State]cia402.Statusword{
	cia402.StateNotReadyToSwitchOn:  0x0200,
	cia402.StateSwitchOnDisabled:    0x0240,
	cia402.StateReadyToSwitchOn:     0x0231,
	cia402.StateSwitchedOn:          0x0233,
	cia402.StateOperationEnabled:    0x0237,
	cia402.StateQuickStopActive:     0x0217,
	cia402.StateFaultReactionActive: 0x021f,
	cia402.StateFault:               0x0218,
}

// Emulator is an in-memory bus of SOMANET drives implementing
// master.Master. Drives follow the CiA 402 power state machine in
// response to commanded controlwords and track velocity targets with a
// fixed ramp, so the full bring-up and supervision paths run without
// hardware. Fault injection methods let tests degrade the bus on demand.
//
// All methods are safe for concurrent use. The process data views
// returned by Inputs and Outputs stay valid for the lifetime of the
// mapping.
type Emulator struct {
	mu sync.Mutex

	iface       string
	initialized bool
	mapped      bool
	drives      []*emuDrive
	group       master.Group
	iomap       []byte
	inputsOff   int
	mappedSize  int
	dcTime      int64
	cycles      int64
	shortWKC    int
}

type emuDrive struct {
	name         string
	firmware     string
	present      bool
	state        master.ALState
	staged       master.ALState
	alStatusCode uint16
	hasDC        bool

	power  cia402.State
	opmode cia402.OpMode
	in     Inputs
	out    Outputs
	inBuf  []byte
	outBuf []byte
}

// NewEmulator creates an emulated bus with the given number of drives
func NewEmulator(drives int) *Emulator {
	e := &Emulator{}
	for i := 0; i < drives; i++ {
		e.drives = append(e.drives, &emuDrive{
			name:     "SOMANET",
			firmware: "v4.2.0",
			present:  true,
			state:    master.StateNone,
			power:    cia402.StateSwitchOnDisabled,
		})
	}
	return e
}

// Init binds the emulated bus to an interface name
func (e *Emulator) Init(iface string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if iface == "" {
		return fmt.Errorf("no interface given")
	}
	e.iface = iface
	e.initialized = true
	return nil
}

// ConfigInit enumerates the emulated drives and brings them to PRE_OP
func (e *Emulator) ConfigInit() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return 0, fmt.Errorf("emulator is not initialized")
	}
	for _, d := range e.drives {
		if d.present {
			d.state = master.StatePreOP
		}
	}
	return len(e.drives), nil
}

// ConfigMap lays the process data of all drives out in iomap, outputs
// first then inputs, and brings the drives to SAFE_OP
func (e *Emulator) ConfigMap(iomap []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return 0, fmt.Errorf("emulator is not initialized")
	}
	size := len(e.drives) * (OutputsSize + InputsSize)
	if len(iomap) < size {
		return 0, errNotEnoughData
	}
	off := 0
	for _, d := range e.drives {
		d.outBuf = iomap[off : off+OutputsSize]
		off += OutputsSize
	}
	e.inputsOff = off
	for _, d := range e.drives {
		d.inBuf = iomap[off : off+InputsSize]
		off += InputsSize
		d.refreshInputs(0)
		if d.present {
			d.state = master.StateSafeOP
		}
	}
	e.iomap = iomap
	e.mappedSize = size
	e.group = master.Group{OutputsWKC: len(e.drives), InputsWKC: len(e.drives)}
	e.mapped = true
	return size, nil
}

// ConfigDC enables distributed clocks on all drives
func (e *Emulator) ConfigDC() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return fmt.Errorf("emulator is not initialized")
	}
	for _, d := range e.drives {
		d.hasDC = true
	}
	return nil
}

// SlaveCount is the number of emulated drives
func (e *Emulator) SlaveCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.drives)
}

// Slave returns a snapshot of the drive at pos, or the bus aggregate for
// pos 0
func (e *Emulator) Slave(pos int) master.Slave {
	e.mu.Lock()
	defer e.mu.Unlock()
	if pos == 0 {
		agg := master.Slave{State: e.lowestStateLocked()}
		for _, d := range e.drives {
			agg.OutputBytes += OutputsSize
			agg.InputBytes += InputsSize
			if agg.ALStatusCode == 0 {
				agg.ALStatusCode = d.alStatusCode
			}
		}
		return agg
	}
	if pos < 1 || pos > len(e.drives) {
		return master.Slave{}
	}
	d := e.drives[pos-1]
	st := d.state
	if !d.present {
		st = master.StateNone
	}
	return master.Slave{
		Pos:          pos,
		Name:         d.name,
		State:        st,
		ALStatusCode: d.alStatusCode,
		OutputBytes:  OutputsSize,
		InputBytes:   InputsSize,
		HasDC:        d.hasDC,
	}
}

func (e *Emulator) lowestStateLocked() master.ALState {
	if len(e.drives) == 0 {
		return master.StateNone
	}
	lowest := master.StateOperational
	for _, d := range e.drives {
		st := d.state
		if !d.present {
			st = master.StateNone
		}
		if st.Base() < lowest.Base() {
			lowest = st
		}
	}
	return lowest
}

func (e *Emulator) drivesAt(pos int) []*emuDrive {
	if pos == 0 {
		return e.drives
	}
	if pos < 1 || pos > len(e.drives) {
		return nil
	}
	return e.drives[pos-1 : pos]
}

// SetState stages a requested AL state for the drive at pos, 0 for all
func (e *Emulator) SetState(pos int, state master.ALState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, d := range e.drivesAt(pos) {
		d.staged = state
	}
}

// WriteState applies the staged AL state of the drive at pos, 0 for all
func (e *Emulator) WriteState(pos int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return fmt.Errorf("emulator is not initialized")
	}
	for _, d := range e.drivesAt(pos) {
		d.applyStaged()
	}
	return nil
}

func (d *emuDrive) applyStaged() {
	if !d.present || d.staged == 0 {
		return
	}
	want := d.staged
	d.staged = 0
	switch want {
	case master.StateInit:
		d.state = master.StateInit
		d.alStatusCode = 0
	case master.StatePreOP:
		d.state = master.StatePreOP
	case master.StateSafeOP | master.StateACK:
		if d.state.HasError() {
			d.state = d.state.Base()
			d.alStatusCode = 0
		}
	case master.StateSafeOP:
		if d.state.Base() >= master.StatePreOP && !d.state.HasError() {
			d.state = master.StateSafeOP
		}
	case master.StateOperational:
		if d.state == master.StateSafeOP {
			d.state = master.StateOperational
		}
	}
}

// CheckState returns the current AL state of the drive at pos, or the bus
// aggregate for pos 0. Emulated transitions are immediate, so there is
// nothing to wait for.
func (e *Emulator) CheckState(pos int, _ master.ALState, _ time.Duration) master.ALState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if pos == 0 {
		return e.lowestStateLocked()
	}
	if pos < 1 || pos > len(e.drives) {
		return master.StateNone
	}
	d := e.drives[pos-1]
	if !d.present {
		return master.StateNone
	}
	return d.state
}

// ReadStates returns the lowest AL state on the bus
func (e *Emulator) ReadStates() master.ALState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lowestStateLocked()
}

// SendProcessData runs one exchange: drives publish their inputs, then
// operational drives consume the commanded outputs
func (e *Emulator) SendProcessData() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mapped {
		return fmt.Errorf("process data is not mapped")
	}
	e.cycles++
	for _, d := range e.drives {
		if !d.present {
			continue
		}
		if d.state.Base() >= master.StateSafeOP {
			d.refreshInputs(e.cycles)
		}
		if d.state.Base() == master.StateOperational {
			d.out.UnmarshalBinary(d.outBuf)
			d.step()
		}
	}
	return nil
}

// ReceiveProcessData captures the DC time and returns the working counter
// of the exchange
func (e *Emulator) ReceiveProcessData(_ time.Duration) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mapped {
		return 0
	}
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err == nil {
		e.dcTime = ts.Nano()
	}
	wkc := 0
	for _, d := range e.drives {
		if !d.present {
			continue
		}
		switch d.state.Base() {
		case master.StateOperational:
			wkc += 3
		case master.StateSafeOP:
			wkc++
		}
	}
	if e.shortWKC > 0 {
		e.shortWKC--
		if wkc > 0 {
			wkc--
		}
	}
	return wkc
}

// refreshInputs publishes the drive model into the input image
func (d *emuDrive) refreshInputs(cycle int64) {
	sw := powerToStatusword[d.power]
	if d.power == cia402.StateOperationEnabled && d.in.VelocityValue == d.in.VelocityDemandValue {
		sw |= cia402.StatuswordTargetReached
	}
	d.in.Statusword = sw
	d.in.OpModeDisplay = d.opmode
	d.in.Timestamp = int32(cycle)
	d.in.MarshalBinaryTo(d.inBuf)
}

// step consumes the commanded outputs: power state transitions first,
// then motion
func (d *emuDrive) step() {
	if d.out.OpMode != cia402.OpModeNone {
		d.opmode = d.out.OpMode
	}
	switch d.out.Controlword {
	case cia402.ControlwordFaultReset:
		if d.power == cia402.StateFault {
			d.power = cia402.StateSwitchOnDisabled
		}
	case cia402.ControlwordShutdown:
		switch d.power {
		case cia402.StateSwitchOnDisabled, cia402.StateSwitchedOn, cia402.StateOperationEnabled:
			d.power = cia402.StateReadyToSwitchOn
		}
	case cia402.ControlwordSwitchOn:
		switch d.power {
		case cia402.StateReadyToSwitchOn, cia402.StateOperationEnabled:
			d.power = cia402.StateSwitchedOn
		}
	case cia402.ControlwordEnableOperation:
		switch d.power {
		case cia402.StateSwitchedOn, cia402.StateQuickStopActive:
			d.power = cia402.StateOperationEnabled
		}
	case cia402.ControlwordQuickStop:
		if d.power == cia402.StateOperationEnabled {
			d.power = cia402.StateQuickStopActive
		}
	case cia402.ControlwordDisableVoltage:
		switch d.power {
		case cia402.StateReadyToSwitchOn, cia402.StateSwitchedOn,
			cia402.StateOperationEnabled, cia402.StateQuickStopActive:
			d.power = cia402.StateSwitchOnDisabled
		}
	}

	var target int32
	if d.power == cia402.StateOperationEnabled && d.opmode == cia402.OpModeCSV {
		target = d.out.TargetVelocity + d.out.VelocityOffset
	}
	d.in.VelocityDemandValue = target
	d.in.VelocityValue = rampTowards(d.in.VelocityValue, target, emuVelocityStep)
	d.in.PositionValue += d.in.VelocityValue
	if d.power == cia402.StateQuickStopActive && d.in.VelocityValue == 0 {
		d.power = cia402.StateSwitchOnDisabled
	}
}

func rampTowards(cur, want, step int32) int32 {
	switch {
	case cur+step < want:
		return cur + step
	case cur-step > want:
		return cur - step
	default:
		return want
	}
}

// Reconfig brings a degraded but still responding drive back to
// OPERATIONAL
func (e *Emulator) Reconfig(pos int, _ time.Duration) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if pos < 1 || pos > len(e.drives) {
		return false
	}
	d := e.drives[pos-1]
	if !d.present {
		return false
	}
	d.state = master.StateOperational
	d.alStatusCode = 0
	return true
}

// Recover re-attaches a drive that vanished from the bus. The drive
// comes back freshly booted, in INIT.
func (e *Emulator) Recover(pos int, _ time.Duration) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if pos < 1 || pos > len(e.drives) {
		return false
	}
	d := e.drives[pos-1]
	if d.present {
		return false
	}
	d.present = true
	d.state = master.StateInit
	d.alStatusCode = 0
	d.power = cia402.StateSwitchOnDisabled
	d.opmode = cia402.OpModeNone
	d.in = Inputs{}
	d.out = Outputs{}
	return true
}

// Inputs exposes the mapped input image of the drive at pos, or the whole
// input region for pos 0
func (e *Emulator) Inputs(pos int) []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mapped {
		return nil
	}
	if pos == 0 {
		return e.iomap[e.inputsOff:e.mappedSize]
	}
	if pos < 1 || pos > len(e.drives) {
		return nil
	}
	return e.drives[pos-1].inBuf
}

// Outputs exposes the mapped output image of the drive at pos, or the
// whole output region for pos 0
func (e *Emulator) Outputs(pos int) []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mapped {
		return nil
	}
	if pos == 0 {
		return e.iomap[0:e.inputsOff]
	}
	if pos < 1 || pos > len(e.drives) {
		return nil
	}
	return e.drives[pos-1].outBuf
}

// Group returns the single emulated slave group
func (e *Emulator) Group(_ int) master.Group {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.group
}

// ReadSDO serves the few object dictionary entries the emulated drives
// carry
func (e *Emulator) ReadSDO(pos int, index uint16, sub uint8, _ time.Duration) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if pos < 1 || pos > len(e.drives) {
		return nil, fmt.Errorf("no slave at position %d", pos)
	}
	d := e.drives[pos-1]
	if !d.present {
		return nil, fmt.Errorf("slave %d is not responding", pos)
	}
	switch index {
	case ODDeviceName:
		return []byte(d.name), nil
	case ODSoftwareVersion:
		return []byte(d.firmware), nil
	}
	return nil, fmt.Errorf("SDO 0x%04x:%d is not in the object dictionary", index, sub)
}

// DCTime is the distributed clock time captured with the last exchange
func (e *Emulator) DCTime() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dcTime
}

// Close drops the emulated NIC binding
func (e *Emulator) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initialized = false
	e.mapped = false
}

// FailWKC makes the next n exchanges come back with a short working
// counter, like a frame lost on the wire
func (e *Emulator) FailWKC(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shortWKC = n
}

// DropSlave makes the drive at pos vanish from the bus until Recover
// finds it again
func (e *Emulator) DropSlave(pos int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, d := range e.drivesAt(pos) {
		d.present = false
		d.state = master.StateNone
	}
}

// DegradeSlave moves the drive at pos into the given AL state with the
// given AL status code, like a link fault would
func (e *Emulator) DegradeSlave(pos int, state master.ALState, code uint16) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, d := range e.drivesAt(pos) {
		d.state = state
		d.alStatusCode = code
	}
}

// InjectFault trips the drive at pos into the CiA 402 fault state
func (e *Emulator) InjectFault(pos int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, d := range e.drivesAt(pos) {
		d.power = cia402.StateFault
	}
}

// SetFirmware overrides the software version the drive at pos reports
func (e *Emulator) SetFirmware(pos int, fw string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, d := range e.drivesAt(pos) {
		d.firmware = fw
	}
}
