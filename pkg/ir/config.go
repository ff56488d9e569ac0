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
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// DefaultAirName is the name given to an AIR whose source does not name it.
const DefaultAirName = "CustomAir"

// MinCycleLength is the default minimum number of values in a periodic column.
const MinCycleLength = 2

// Config determines how an IR is built from a given source.
type Config struct {
	// Name used when the source does not declare one.
	DefaultName string `yaml:"default_name"`
	// Minimum permitted cycle length for a periodic column.
	MinCycleLength uint `yaml:"min_cycle_length"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{DefaultAirName, MinCycleLength}
}

// ReadConfig reads a YAML configuration, starting from the default
// configuration such that any fields omitted retain their default values.  An
// empty document yields the default configuration.
func ReadConfig(r io.Reader) (Config, error) {
	config := DefaultConfig()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	//
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("invalid configuration: %w", err)
	} else if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid configuration: %w", err)
	}
	//
	return config, nil
}

// Validate checks this configuration is usable for building an IR.
func (c Config) Validate() error {
	if c.DefaultName == "" {
		return errors.New("default name cannot be empty")
	} else if c.MinCycleLength == 0 || c.MinCycleLength&(c.MinCycleLength-1) != 0 {
		return fmt.Errorf("minimum cycle length %d is not a power of two", c.MinCycleLength)
	}
	//
	return nil
}
