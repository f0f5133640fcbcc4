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

// DiscoveryConfig configures self-registration of the broker process into an
// mdns service registry, separate from (and above) the broker's own Node
// Registry: this lets a supervisory tool find the live broker instance.
type DiscoveryConfig struct {
	Discovery struct {
		Addresses []string      `yaml:"addresses" env:"DISCOVERY_ADDRESSES,overwrite"`
		CacheTTL  time.Duration `yaml:"cache_duration" env:"DISCOVERY_CACHE_DURATION,overwrite"`
	} `yaml:"discovery"`
}

func (d *DiscoveryConfig) Validate() error {
	return nil
}

func BuildNewDiscoveryConfig(path string) func() (*DiscoveryConfig, error) {
	return func() (*DiscoveryConfig, error) {
		var config DiscoveryConfig
		config.Discovery.CacheTTL = 10 * time.Second

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
