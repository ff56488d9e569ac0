// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Empty(t *testing.T) {
	config, err := ReadConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestConfig_Partial(t *testing.T) {
	config, err := ReadConfig(strings.NewReader("min_cycle_length: 8\n"))
	require.NoError(t, err)
	assert.Equal(t, Config{DefaultAirName, 8}, config)
}

func TestConfig_Full(t *testing.T) {
	config, err := ReadConfig(strings.NewReader("default_name: Fib\nmin_cycle_length: 4\n"))
	require.NoError(t, err)
	assert.Equal(t, Config{"Fib", 4}, config)
}

func TestConfig_Invalid(t *testing.T) {
	for _, text := range []string{
		"min_cycle_length: 6\n",
		"min_cycle_length: 0\n",
		"default_name: \"\"\n",
		"unknown_field: 1\n",
		"min_cycle_length: [1, 2]\n",
	} {
		_, err := ReadConfig(strings.NewReader(text))
		assert.Error(t, err, text)
	}
}
