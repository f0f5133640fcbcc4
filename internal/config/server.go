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
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v2"
)

// ServerConfig configures the broker's RPC surface (spec §4.5, §6).
type ServerConfig struct {
	Namespace string `yaml:"namespace" env:"BROKER_NAMESPACE,overwrite"`
	Name      string `yaml:"name" env:"BROKER_NAME,overwrite"`
	Version   int    `yaml:"version" env:"BROKER_VERSION,overwrite"`
	Address   string `yaml:"address" env:"BROKER_ADDRESS,overwrite"`
	Debug     bool   `yaml:"debug" env:"BROKER_DEBUG,overwrite"`
}

func (s *ServerConfig) Validate() error {
	s.Namespace = strings.TrimSpace(s.Namespace)
	s.Name = strings.TrimSpace(s.Name)
	s.Address = strings.TrimSpace(s.Address)

	if s.Namespace == "" {
		return &InvalidConfigurationParameterError{Parameter: "Namespace", Reason: "should not be empty"}
	}

	if s.Name == "" {
		return &InvalidConfigurationParameterError{Parameter: "Name", Reason: "should not be empty"}
	}

	if s.Address == "" {
		return &InvalidConfigurationParameterError{Parameter: "Address", Reason: "should not be empty"}
	}

	return nil
}

func BuildNewServerConfig(path string) func() (*ServerConfig, error) {
	return func() (*ServerConfig, error) {
		config := ServerConfig{
			Namespace: "robot",
			Name:      "broker",
			Version:   1,
			Address:   "[::1]:50051",
		}

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
