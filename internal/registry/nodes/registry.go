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

package nodes

import (
	"time"

	"github.com/ONLYOFFICE/robotbroker/internal/alloc"
	"github.com/ONLYOFFICE/robotbroker/internal/config"
)

// Registry tracks the set of live worker nodes and issues each one a unique
// local address on registration (spec §4.2). Registry takes no lock of its
// own: callers (internal/broker.Broker) must already hold the single
// broker-wide mutex before calling any method here.
type Registry struct {
	storage   Storage
	allocator *alloc.Allocator
	tokenLen  int
}

// NewRegistry wires a Registry backed by an in-memory Storage and the given
// Allocator for minting node addresses.
func NewRegistry(allocator *alloc.Allocator, cfg *config.AllocatorConfig) *Registry {
	return &Registry{
		storage:   newMemoryStorage(),
		allocator: allocator,
		tokenLen:  cfg.Allocator.TokenLength,
	}
}

// RegisterNode mints a fresh address for name and records the node as live.
// Returns AlreadyExistsError if name is already registered.
func (r *Registry) RegisterNode(name string, now time.Time) (Node, error) {
	if _, ok := r.storage.Get(name); ok {
		return Node{}, &AlreadyExistsError{Name: name}
	}

	address, err := r.allocator.Allocate(r.tokenLen, r.storage.HasAddress)
	if err != nil {
		return Node{}, err
	}

	node := Node{Name: name, Address: address, LastHeartbeat: now}
	if err := r.storage.Add(node); err != nil {
		return Node{}, err
	}

	return node, nil
}

// DeleteNode removes name from the registry. Returns NotRegisteredError if
// name was never registered, or is already gone.
func (r *Registry) DeleteNode(name string) error {
	return r.storage.Remove(name)
}

// Heartbeat refreshes the liveness timestamp for name. Returns
// NotRegisteredError if name is not registered.
func (r *Registry) Heartbeat(name string, now time.Time) error {
	return r.storage.UpdateHeartbeat(name, now)
}

// Get returns the node registered under name, if any.
func (r *Registry) Get(name string) (Node, bool) {
	return r.storage.Get(name)
}

// List returns every currently registered node, in no particular order.
func (r *Registry) List() []Node {
	return r.storage.List()
}

// StaleBefore returns the names of nodes whose last heartbeat precedes cutoff,
// for the Liveness Reaper (spec §4.6) to evict.
func (r *Registry) StaleBefore(cutoff time.Time) []string {
	var stale []string
	for _, node := range r.storage.List() {
		if node.LastHeartbeat.Before(cutoff) {
			stale = append(stale, node.Name)
		}
	}
	return stale
}
