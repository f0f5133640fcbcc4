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

package nodes_test

import (
	"testing"
	"time"

	"github.com/ONLYOFFICE/robotbroker/internal/alloc"
	"github.com/ONLYOFFICE/robotbroker/internal/config"
	"github.com/ONLYOFFICE/robotbroker/internal/registry/nodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) *nodes.Registry {
	t.Helper()
	allocCfg := &config.AllocatorConfig{}
	allocCfg.Allocator.ScratchParent = t.TempDir()
	allocCfg.Allocator.TokenLength = 20

	a, err := alloc.New(allocCfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	return nodes.NewRegistry(a, allocCfg)
}

func TestRegisterNodeIssuesUniqueAddress(t *testing.T) {
	r := newRegistry(t)
	now := time.Now()

	n1, err := r.RegisterNode("worker-a", now)
	require.NoError(t, err)
	assert.Equal(t, "worker-a", n1.Name)
	assert.NotEmpty(t, n1.Address)

	n2, err := r.RegisterNode("worker-b", now)
	require.NoError(t, err)
	assert.NotEqual(t, n1.Address, n2.Address)
}

func TestRegisterNodeRejectsDuplicateName(t *testing.T) {
	r := newRegistry(t)
	now := time.Now()

	_, err := r.RegisterNode("worker-a", now)
	require.NoError(t, err)

	_, err = r.RegisterNode("worker-a", now)
	require.Error(t, err)
	assert.IsType(t, &nodes.AlreadyExistsError{}, err)
}

func TestHeartbeatUpdatesLiveness(t *testing.T) {
	r := newRegistry(t)
	start := time.Now()

	_, err := r.RegisterNode("worker-a", start)
	require.NoError(t, err)

	later := start.Add(time.Minute)
	require.NoError(t, r.Heartbeat("worker-a", later))

	node, ok := r.Get("worker-a")
	require.True(t, ok)
	assert.Equal(t, later, node.LastHeartbeat)
}

func TestHeartbeatUnknownNodeErrors(t *testing.T) {
	r := newRegistry(t)
	err := r.Heartbeat("ghost", time.Now())
	require.Error(t, err)
	assert.IsType(t, &nodes.NotRegisteredError{}, err)
}

func TestDeleteNodeRemovesIt(t *testing.T) {
	r := newRegistry(t)
	now := time.Now()

	_, err := r.RegisterNode("worker-a", now)
	require.NoError(t, err)

	require.NoError(t, r.DeleteNode("worker-a"))

	_, ok := r.Get("worker-a")
	assert.False(t, ok)
}

func TestDeleteUnknownNodeErrors(t *testing.T) {
	r := newRegistry(t)
	err := r.DeleteNode("ghost")
	require.Error(t, err)
	assert.IsType(t, &nodes.NotRegisteredError{}, err)
}

func TestStaleBeforeFindsExpiredNodes(t *testing.T) {
	r := newRegistry(t)
	start := time.Now()

	_, err := r.RegisterNode("worker-a", start)
	require.NoError(t, err)
	_, err = r.RegisterNode("worker-b", start.Add(time.Hour))
	require.NoError(t, err)

	stale := r.StaleBefore(start.Add(time.Minute))
	assert.Equal(t, []string{"worker-a"}, stale)
}

func TestListReturnsAllNodes(t *testing.T) {
	r := newRegistry(t)
	now := time.Now()

	_, err := r.RegisterNode("worker-a", now)
	require.NoError(t, err)
	_, err = r.RegisterNode("worker-b", now)
	require.NoError(t, err)

	assert.Len(t, r.List(), 2)
}
