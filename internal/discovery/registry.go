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

// Package discovery registers the broker process itself into a service
// registry (grounded on pkg/registry/registry.go), orthogonal to
// internal/registry/nodes, which tracks worker nodes rather than broker
// instances. This lets a future multi-broker or supervisory tool find the
// live broker the same way any other go-micro service would be found.
package discovery

import (
	"github.com/ONLYOFFICE/robotbroker/internal/config"
	"github.com/go-micro/plugins/v4/registry/mdns"
	"go-micro.dev/v4/registry"
	regcache "go-micro.dev/v4/registry/cache"
)

// NewRegistry builds an mdns-backed registry.Registry, wrapped in a
// short-TTL cache the same way pkg/registry/registry.go wraps every backend
// it constructs.
func NewRegistry(cfg *config.DiscoveryConfig) registry.Registry {
	r := mdns.NewRegistry(registry.Addrs(cfg.Discovery.Addresses...))
	return regcache.New(r, regcache.WithTTL(cfg.Discovery.CacheTTL))
}
