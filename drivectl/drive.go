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
	log "github.com/sirupsen/logrus"

	"github.com/facebook/ethercat/cia402"
	"github.com/facebook/ethercat/somanet"
)

// driveController owns the command side of a single drive. It keeps the
// output image stateful across cycles and decides at most one action per
// accepted exchange: either the next power state transition or, once the
// drive is enabled, the velocity setpoint.
type driveController struct {
	out somanet.Outputs

	opmode   cia402.OpMode
	velocity int32

	opmodeSet bool
	lastState cia402.State
}

func newDriveController(opmode cia402.OpMode, velocity int32) *driveController {
	return &driveController{
		opmode:    opmode,
		velocity:  velocity,
		lastState: cia402.StateUnknown,
	}
}

// step consumes the inputs of one accepted cycle and updates the command.
// The operating mode is written exactly once, on the first accepted cycle.
func (d *driveController) step(in *somanet.Inputs) {
	if !d.opmodeSet {
		d.out.OpMode = d.opmode
		d.opmodeSet = true
	}
	st := in.Statusword.State()
	if st != d.lastState {
		log.Debugf("drive state %s -> %s (statusword 0x%04x)", d.lastState, st, uint16(in.Statusword))
		d.lastState = st
	}
	if st == cia402.StateOperationEnabled {
		d.out.TargetVelocity = d.velocity
		return
	}
	if cw, ok := cia402.NextControlword(st); ok {
		d.out.Controlword = cw
	}
}

// state reports the last power state decoded by step.
func (d *driveController) state() cia402.State {
	return d.lastState
}

// outputs exposes the live command image for encoding into the process image.
func (d *driveController) outputs() *somanet.Outputs {
	return &d.out
}

// quickStop commands a controlled ramp to standstill.
func (d *driveController) quickStop() {
	d.out.Controlword = cia402.ControlwordQuickStop
	d.out.TargetVelocity = 0
}

// disableVoltage removes power from the drive stage.
func (d *driveController) disableVoltage() {
	d.out.Controlword = cia402.ControlwordDisableVoltage
}
