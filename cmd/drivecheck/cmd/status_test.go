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

package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/facebook/ethercat/drivectl/stats"
)

func TestPrintStatus(t *testing.T) {
	devices := stats.Devices{
		{
			Position:     2,
			Name:         "SOMANET",
			State:        "SAFE_OP+ERROR",
			ALStatusCode: 0x001b,
			StatusText:   "Synchronization error",
		},
		{
			Position:    1,
			Name:        "SOMANET",
			State:       "OPERATIONAL",
			Operational: true,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, printStatus(&buf, devices))
	out := buf.String()
	require.Contains(t, out, "OPERATIONAL")
	require.Contains(t, out, "SAFE_OP+ERROR")
	require.Contains(t, out, "0x001b (Synchronization error)")

	// sorted by position
	require.Less(t, bytes.Index(buf.Bytes(), []byte("OPERATIONAL")), bytes.Index(buf.Bytes(), []byte("SAFE_OP+ERROR")))
}
