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
	"encoding/binary"
	"errors"

	"github.com/facebook/ethercat/cia402"
)

// mapped process data sizes of the v4.2 firmware
const (
	// InputsSize is the byte size of the TxPDO image (drive to master)
	InputsSize = 55
	// OutputsSize is the byte size of the RxPDO image (master to drive)
	OutputsSize = 31
)

var errNotEnoughData = errors.New("not enough data")

// Inputs is the process data a SOMANET drive reports every cycle.
// Field order matches the PDO mapping of the v4.2 firmware, all values
// little endian on the wire.
type Inputs struct {
	Statusword                  cia402.Statusword
	OpModeDisplay               cia402.OpMode
	PositionValue               int32
	VelocityValue               int32
	TorqueValue                 int16
	SecPositionValue            int32
	SecVelocityValue            int32
	AnalogInput1                int16
	AnalogInput2                int16
	AnalogInput3                int16
	AnalogInput4                int16
	TuningStatus                int32
	DigitalInput1               int8
	DigitalInput2               int8
	DigitalInput3               int8
	DigitalInput4               int8
	UserMISO                    int32
	Timestamp                   int32
	PositionDemandInternalValue int32
	VelocityDemandValue         int32
	TorqueDemand                int16
}

// UnmarshalBinary decodes the TxPDO image
func (i *Inputs) UnmarshalBinary(b []byte) error {
	if len(b) < InputsSize {
		return errNotEnoughData
	}
	i.Statusword = cia402.Statusword(binary.LittleEndian.Uint16(b[0:]))
	i.OpModeDisplay = cia402.OpMode(b[2])
	i.PositionValue = int32(binary.LittleEndian.Uint32(b[3:]))
	i.VelocityValue = int32(binary.LittleEndian.Uint32(b[7:]))
	i.TorqueValue = int16(binary.LittleEndian.Uint16(b[11:]))
	i.SecPositionValue = int32(binary.LittleEndian.Uint32(b[13:]))
	i.SecVelocityValue = int32(binary.LittleEndian.Uint32(b[17:]))
	i.AnalogInput1 = int16(binary.LittleEndian.Uint16(b[21:]))
	i.AnalogInput2 = int16(binary.LittleEndian.Uint16(b[23:]))
	i.AnalogInput3 = int16(binary.LittleEndian.Uint16(b[25:]))
	i.AnalogInput4 = int16(binary.LittleEndian.Uint16(b[27:]))
	i.TuningStatus = int32(binary.LittleEndian.Uint32(b[29:]))
	i.DigitalInput1 = int8(b[33])
	i.DigitalInput2 = int8(b[34])
	i.DigitalInput3 = int8(b[35])
	i.DigitalInput4 = int8(b[36])
	i.UserMISO = int32(binary.LittleEndian.Uint32(b[37:]))
	i.Timestamp = int32(binary.LittleEndian.Uint32(b[41:]))
	i.PositionDemandInternalValue = int32(binary.LittleEndian.Uint32(b[45:]))
	i.VelocityDemandValue = int32(binary.LittleEndian.Uint32(b[49:]))
	i.TorqueDemand = int16(binary.LittleEndian.Uint16(b[53:]))
	return nil
}

// MarshalBinaryTo encodes the TxPDO image into b
func (i *Inputs) MarshalBinaryTo(b []byte) (int, error) {
	if len(b) < InputsSize {
		return 0, errNotEnoughData
	}
	binary.LittleEndian.PutUint16(b[0:], uint16(i.Statusword))
	b[2] = byte(i.OpModeDisplay)
	binary.LittleEndian.PutUint32(b[3:], uint32(i.PositionValue))
	binary.LittleEndian.PutUint32(b[7:], uint32(i.VelocityValue))
	binary.LittleEndian.PutUint16(b[11:], uint16(i.TorqueValue))
	binary.LittleEndian.PutUint32(b[13:], uint32(i.SecPositionValue))
	binary.LittleEndian.PutUint32(b[17:], uint32(i.SecVelocityValue))
	binary.LittleEndian.PutUint16(b[21:], uint16(i.AnalogInput1))
	binary.LittleEndian.PutUint16(b[23:], uint16(i.AnalogInput2))
	binary.LittleEndian.PutUint16(b[25:], uint16(i.AnalogInput3))
	binary.LittleEndian.PutUint16(b[27:], uint16(i.AnalogInput4))
	binary.LittleEndian.PutUint32(b[29:], uint32(i.TuningStatus))
	b[33] = byte(i.DigitalInput1)
	b[34] = byte(i.DigitalInput2)
	b[35] = byte(i.DigitalInput3)
	b[36] = byte(i.DigitalInput4)
	binary.LittleEndian.PutUint32(b[37:], uint32(i.UserMISO))
	binary.LittleEndian.PutUint32(b[41:], uint32(i.Timestamp))
	binary.LittleEndian.PutUint32(b[45:], uint32(i.PositionDemandInternalValue))
	binary.LittleEndian.PutUint32(b[49:], uint32(i.VelocityDemandValue))
	binary.LittleEndian.PutUint16(b[53:], uint16(i.TorqueDemand))
	return InputsSize, nil
}

// Outputs is the process data we command to a SOMANET drive every cycle.
// The struct is stateful across cycles: encode it every cycle, mutate only
// the fields a decision changed.
type Outputs struct {
	Controlword    cia402.Controlword
	OpMode         cia402.OpMode
	TargetTorque   int16
	TargetPosition int32
	TargetVelocity int32
	TorqueOffset   int16
	TuningCommand  int32
	DigitalOutput1 int8
	DigitalOutput2 int8
	DigitalOutput3 int8
	DigitalOutput4 int8
	UserMOSI       int32
	VelocityOffset int32
}

// UnmarshalBinary decodes the RxPDO image
func (o *Outputs) UnmarshalBinary(b []byte) error {
	if len(b) < OutputsSize {
		return errNotEnoughData
	}
	o.Controlword = cia402.Controlword(binary.LittleEndian.Uint16(b[0:]))
	o.OpMode = cia402.OpMode(b[2])
	o.TargetTorque = int16(binary.LittleEndian.Uint16(b[3:]))
	o.TargetPosition = int32(binary.LittleEndian.Uint32(b[5:]))
	o.TargetVelocity = int32(binary.LittleEndian.Uint32(b[9:]))
	o.TorqueOffset = int16(binary.LittleEndian.Uint16(b[13:]))
	o.TuningCommand = int32(binary.LittleEndian.Uint32(b[15:]))
	o.DigitalOutput1 = int8(b[19])
	o.DigitalOutput2 = int8(b[20])
	o.DigitalOutput3 = int8(b[21])
	o.DigitalOutput4 = int8(b[22])
	o.UserMOSI = int32(binary.LittleEndian.Uint32(b[23:]))
	o.VelocityOffset = int32(binary.LittleEndian.Uint32(b[27:]))
	return nil
}

// MarshalBinaryTo encodes the RxPDO image into b
func (o *Outputs) MarshalBinaryTo(b []byte) (int, error) {
	if len(b) < OutputsSize {
		return 0, errNotEnoughData
	}
	binary.LittleEndian.PutUint16(b[0:], uint16(o.Controlword))
	b[2] = byte(o.OpMode)
	binary.LittleEndian.PutUint16(b[3:], uint16(o.TargetTorque))
	binary.LittleEndian.PutUint32(b[5:], uint32(o.TargetPosition))
	binary.LittleEndian.PutUint32(b[9:], uint32(o.TargetVelocity))
	binary.LittleEndian.PutUint16(b[13:], uint16(o.TorqueOffset))
	binary.LittleEndian.PutUint32(b[15:], uint32(o.TuningCommand))
	b[19] = byte(o.DigitalOutput1)
	b[20] = byte(o.DigitalOutput2)
	b[21] = byte(o.DigitalOutput3)
	b[22] = byte(o.DigitalOutput4)
	binary.LittleEndian.PutUint32(b[23:], uint32(o.UserMOSI))
	binary.LittleEndian.PutUint32(b[27:], uint32(o.VelocityOffset))
	return OutputsSize, nil
}
