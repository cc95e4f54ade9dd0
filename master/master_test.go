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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestALStateString(t *testing.T) {
	assert.Equal(t, "NONE", StateNone.String())
	assert.Equal(t, "INIT", StateInit.String())
	assert.Equal(t, "PRE_OP", StatePreOP.String())
	assert.Equal(t, "SAFE_OP", StateSafeOP.String())
	assert.Equal(t, "OPERATIONAL", StateOperational.String())
	assert.Equal(t, "SAFE_OP+ERROR", (StateSafeOP | StateError).String())
	assert.Equal(t, "OPERATIONAL+ERROR", (StateOperational | StateError).String())
	assert.Equal(t, "ERROR", StateError.String())
	assert.Equal(t, "UNSUPPORTED VALUE", ALState(0x0f).String())
}

func TestALStateFlags(t *testing.T) {
	s := StateSafeOP | StateError
	assert.True(t, s.HasError())
	assert.Equal(t, StateSafeOP, s.Base())

	s = StateOperational
	assert.False(t, s.HasError())
	assert.Equal(t, StateOperational, s.Base())
}

func TestGroupExpectedWKC(t *testing.T) {
	// outputs are counted twice: written by us, read back by the slave
	g := Group{OutputsWKC: 2, InputsWKC: 3}
	assert.Equal(t, 7, g.ExpectedWKC())

	g = Group{OutputsWKC: 1, InputsWKC: 1}
	assert.Equal(t, 3, g.ExpectedWKC())

	g = Group{}
	assert.Equal(t, 0, g.ExpectedWKC())
}

func TestALStatusString(t *testing.T) {
	assert.Equal(t, "No error", ALStatusString(0x0000))
	assert.Equal(t, "Invalid requested state change", ALStatusString(0x0011))
	assert.Equal(t, "Sync manager watchdog", ALStatusString(0x001b))
	assert.Equal(t, "Unknown AL status code", ALStatusString(0xbeef))
}

func TestOpenByDefaultHasNoStack(t *testing.T) {
	m, err := Open("eth0")
	require.ErrorIs(t, err, ErrNoStack)
	assert.Nil(t, m)
}
