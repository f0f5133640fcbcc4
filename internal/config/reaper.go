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

// ReaperConfig configures the Liveness Reaper (spec §4.6). It is optional:
// Enabled defaults to false so a broker can run with no background eviction,
// matching spec's "the Reaper is OPTIONAL in the minimum implementation".
type ReaperConfig struct {
	Reaper struct {
		Enabled     bool          `yaml:"enabled" env:"REAPER_ENABLED,overwrite"`
		Period      time.Duration `yaml:"period" env:"REAPER_PERIOD,overwrite"`
		Threshold   time.Duration `yaml:"threshold" env:"REAPER_THRESHOLD,overwrite"`
		ActiveProbe bool          `yaml:"active_probe" env:"REAPER_ACTIVE_PROBE,overwrite"`
	} `yaml:"reaper"`
}

func (r *ReaperConfig) Validate() error {
	if !r.Reaper.Enabled {
		return nil
	}

	if r.Reaper.Period <= 0 {
		return &InvalidConfigurationParameterError{Parameter: "Period", Reason: "must be positive when the reaper is enabled"}
	}

	if r.Reaper.Threshold <= 0 {
		return &InvalidConfigurationParameterError{Parameter: "Threshold", Reason: "must be positive when the reaper is enabled"}
	}

	return nil
}

func BuildNewReaperConfig(path string) func() (*ReaperConfig, error) {
	return func() (*ReaperConfig, error) {
		var config ReaperConfig
		config.Reaper.Period = 1 * time.Second
		config.Reaper.Threshold = 5 * time.Second

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
