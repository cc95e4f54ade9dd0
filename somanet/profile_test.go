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
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/facebook/ethercat/master"
)

func TestParseFirmware(t *testing.T) {
	testCases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "v4.2.1", want: "4.2.1"},
		{in: "SOMANET-4.4.0", want: "4.4.0"},
		{in: "4.2\x00\x00", want: "4.2.0"},
		{in: " V4.3.0 ", want: "4.3.0"},
		{in: "banana", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			v, err := ParseFirmware(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, v.String())
		})
	}
}

func TestCheckFirmware(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m := master.NewMockMaster(ctrl)

	m.EXPECT().ReadSDO(1, ODSoftwareVersion, uint8(0), master.TimeoutMailbox).Return([]byte("v4.4.2\x00"), nil)
	v, err := CheckFirmware(m, 1)
	require.NoError(t, err)
	require.Equal(t, "4.4.2", v.String())

	// too old for the process data layout we encode
	m.EXPECT().ReadSDO(1, ODSoftwareVersion, uint8(0), master.TimeoutMailbox).Return([]byte("v4.1.3"), nil)
	v, err = CheckFirmware(m, 1)
	require.Error(t, err)
	require.Equal(t, "4.1.3", v.String())

	m.EXPECT().ReadSDO(1, ODSoftwareVersion, uint8(0), master.TimeoutMailbox).Return(nil, fmt.Errorf("mailbox timeout"))
	_, err = CheckFirmware(m, 1)
	require.Error(t, err)
}

func TestCheckFirmwareEmulated(t *testing.T) {
	e := NewEmulator(1)
	e.SetFirmware(1, "SOMANET-4.2.0")
	v, err := CheckFirmware(e, 1)
	require.NoError(t, err)
	require.Equal(t, "4.2.0", v.String())

	e.DropSlave(1)
	_, err = CheckFirmware(e, 1)
	require.Error(t, err)
}
