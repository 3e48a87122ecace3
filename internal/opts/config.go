/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package opts

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/cloudwego/cflow/internal/passes"
	"gopkg.in/yaml.v3"
)

// ConfigError occures when a config file holds an invalid value.
type ConfigError struct {
	Key    string
	Reason string
}

func (self ConfigError) Error() string {
	return fmt.Sprintf("ConfigError(%s): %s", self.Key, self.Reason)
}

type _Config struct {
	MaxIterations *int     `yaml:"max_iterations"`
	Verify        *bool    `yaml:"verify"`
	Passes        []string `yaml:"passes"`
}

// Load overrides the options with the values found in a YAML document. Keys
// that are absent keep their current values.
func (self *Options) Load(src []byte) error {
	var cfg _Config
	dec := yaml.NewDecoder(bytes.NewReader(src))

	/* unknown keys are most likely typos */
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return err
	}

	/* check the iteration limit */
	if cfg.MaxIterations != nil && *cfg.MaxIterations < 0 {
		return ConfigError{Key: "max_iterations", Reason: fmt.Sprintf("negative value %d", *cfg.MaxIterations)}
	}

	/* every pass must exist */
	for _, name := range cfg.Passes {
		if _, err := passes.Lookup(name); err != nil {
			return ConfigError{Key: "passes", Reason: err.Error()}
		}
	}

	/* apply all the values */
	if cfg.MaxIterations != nil {
		self.MaxIterations = *cfg.MaxIterations
	}
	if cfg.Verify != nil {
		self.Verify = *cfg.Verify
	}
	if cfg.Passes != nil {
		self.Passes = cfg.Passes
	}
	return nil
}

// LoadFile reads the options from a YAML file, on top of the defaults.
func LoadFile(fn string) (Options, error) {
	ret := GetDefaultOptions()
	src, err := os.ReadFile(fn)

	/* check for read errors */
	if err != nil {
		return ret, err
	}

	/* parse the config */
	err = ret.Load(src)
	return ret, err
}
