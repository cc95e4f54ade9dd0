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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/facebook/ethercat/cia402"
)

func TestInputsUnmarshalBinary(t *testing.T) {
	b := make([]byte, InputsSize)
	binary.LittleEndian.PutUint16(b[0:], 0x0637)
	b[2] = 9
	binary.LittleEndian.PutUint32(b[3:], uint32(0xfffffc18)) // -1000
	binary.LittleEndian.PutUint32(b[7:], 100)
	binary.LittleEndian.PutUint16(b[11:], uint16(0xffd6)) // -42
	b[33] = 1
	b[36] = 1
	binary.LittleEndian.PutUint32(b[41:], 12345)
	binary.LittleEndian.PutUint32(b[49:], 100)

	in := &Inputs{}
	require.NoError(t, in.UnmarshalBinary(b))
	require.Equal(t, cia402.Statusword(0x0637), in.Statusword)
	require.Equal(t, cia402.StateOperationEnabled, in.Statusword.State())
	require.Equal(t, cia402.OpModeCSV, in.OpModeDisplay)
	require.Equal(t, int32(-1000), in.PositionValue)
	require.Equal(t, int32(100), in.VelocityValue)
	require.Equal(t, int16(-42), in.TorqueValue)
	require.Equal(t, int8(1), in.DigitalInput1)
	require.Equal(t, int8(0), in.DigitalInput2)
	require.Equal(t, int8(1), in.DigitalInput4)
	require.Equal(t, int32(12345), in.Timestamp)
	require.Equal(t, int32(100), in.VelocityDemandValue)
	require.Equal(t, int32(0), in.SecPositionValue)
	require.Equal(t, int16(0), in.TorqueDemand)
}

func TestInputsUnmarshalBinaryTooShort(t *testing.T) {
	in := &Inputs{}
	require.ErrorIs(t, in.UnmarshalBinary(make([]byte, InputsSize-1)), errNotEnoughData)
}

func TestInputsMarshalRoundTrip(t *testing.T) {
	in := &Inputs{
		Statusword:          0x0240,
		OpModeDisplay:       cia402.OpModeCSV,
		PositionValue:       123456,
		VelocityValue:       -77,
		SecVelocityValue:    12,
		AnalogInput3:        -3,
		TuningStatus:        42,
		UserMISO:            7,
		Timestamp:           99,
		VelocityDemandValue: -77,
		TorqueDemand:        -1,
	}
	b := make([]byte, InputsSize)
	n, err := in.MarshalBinaryTo(b)
	require.NoError(t, err)
	require.Equal(t, InputsSize, n)

	back := &Inputs{}
	require.NoError(t, back.UnmarshalBinary(b))
	require.Equal(t, in, back)
}

func TestOutputsMarshalBinaryTo(t *testing.T) {
	out := &Outputs{
		Controlword:    cia402.ControlwordEnableOperation,
		OpMode:         cia402.OpModeCSV,
		TargetVelocity: 100,
		DigitalOutput2: 1,
		VelocityOffset: -5,
	}
	b := make([]byte, OutputsSize)
	n, err := out.MarshalBinaryTo(b)
	require.NoError(t, err)
	require.Equal(t, OutputsSize, n)

	require.Equal(t, uint16(0x000f), binary.LittleEndian.Uint16(b[0:]))
	require.Equal(t, byte(9), b[2])
	require.Equal(t, uint32(100), binary.LittleEndian.Uint32(b[9:]))
	require.Equal(t, byte(1), b[20])
	require.Equal(t, int32(-5), int32(binary.LittleEndian.Uint32(b[27:])))

	back := &Outputs{}
	require.NoError(t, back.UnmarshalBinary(b))
	require.Equal(t, out, back)
}

func TestOutputsMarshalBinaryToTooShort(t *testing.T) {
	out := &Outputs{}
	_, err := out.MarshalBinaryTo(make([]byte, OutputsSize-1))
	require.ErrorIs(t, err, errNotEnoughData)
	require.ErrorIs(t, out.UnmarshalBinary(nil), errNotEnoughData)
}
