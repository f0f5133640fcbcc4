/**
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

package config

import (
	"context"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v2"
)

// AllocatorConfig configures the Address Allocator (spec §4.1).
type AllocatorConfig struct {
	Allocator struct {
		ScratchParent string `yaml:"scratch_parent" env:"ALLOCATOR_SCRATCH_PARENT,overwrite"`
		TokenLength   int    `yaml:"token_length" env:"ALLOCATOR_TOKEN_LENGTH,overwrite"`
	} `yaml:"allocator"`
}

func (a *AllocatorConfig) Validate() error {
	if a.Allocator.TokenLength <= 0 {
		return &InvalidConfigurationParameterError{Parameter: "TokenLength", Reason: "must be positive"}
	}
	return nil
}

func BuildNewAllocatorConfig(path string) func() (*AllocatorConfig, error) {
	return func() (*AllocatorConfig, error) {
		var config AllocatorConfig
		config.Allocator.TokenLength = 20

		if path != "" {
			file, err := os.Open(path)
			if err != nil {
				return nil, err
			}
			defer file.Close()

			if err := yaml.NewDecoder(file).Decode(&config); err != nil {
				return nil, err
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		if err := envconfig.Process(ctx, &config); err != nil {
			return nil, err
		}

		return &config, config.Validate()
	}
}
