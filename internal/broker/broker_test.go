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

package broker_test

import (
	"context"
	"testing"
	"time"

	"github.com/ONLYOFFICE/robotbroker/internal/alloc"
	internalbroker "github.com/ONLYOFFICE/robotbroker/internal/broker"
	"github.com/ONLYOFFICE/robotbroker/internal/cache"
	"github.com/ONLYOFFICE/robotbroker/internal/config"
	"github.com/ONLYOFFICE/robotbroker/internal/events"
	"github.com/ONLYOFFICE/robotbroker/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBroker(t *testing.T) *internalbroker.Broker {
	t.Helper()

	allocCfg := &config.AllocatorConfig{}
	allocCfg.Allocator.ScratchParent = t.TempDir()
	allocCfg.Allocator.TokenLength = 20

	a, err := alloc.New(allocCfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	publisher := events.NewPublisher(nil, log.NewNopLogger())

	return internalbroker.New(a, allocCfg, publisher, cache.NewCache(), log.NewNopLogger())
}

func TestRegisterAndList(t *testing.T) {
	ctx := context.Background()
	b := newBroker(t)

	alpha, err := b.RegisterNode(ctx, "alpha")
	require.NoError(t, err)
	beta, err := b.RegisterNode(ctx, "beta")
	require.NoError(t, err)

	assert.NotEqual(t, alpha.Address, beta.Address)

	list, err := b.ListNodes(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestRegisterDuplicateNameFails(t *testing.T) {
	ctx := context.Background()
	b := newBroker(t)

	_, err := b.RegisterNode(ctx, "alpha")
	require.NoError(t, err)

	_, err = b.RegisterNode(ctx, "alpha")
	require.Error(t, err)

	var berr *internalbroker.Error
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, internalbroker.KindAlreadyExists, berr.Kind)
}

func TestTypedTopicMatchingEndToEnd(t *testing.T) {
	ctx := context.Background()
	b := newBroker(t)

	_, err := b.RegisterNode(ctx, "pub")
	require.NoError(t, err)
	sub, err := b.RegisterNode(ctx, "sub")
	require.NoError(t, err)

	require.NoError(t, b.AddSubscriber(ctx, "sub", "T", "Int"))
	require.NoError(t, b.AddPublisher(ctx, "pub", "T", "Int"))

	channel, err := b.GetChannel(ctx, "pub", "sub", "T")
	require.NoError(t, err)
	assert.Equal(t, sub.Address, channel)
}

func TestTypeMismatchFails(t *testing.T) {
	ctx := context.Background()
	b := newBroker(t)

	_, err := b.RegisterNode(ctx, "pub")
	require.NoError(t, err)
	_, err = b.RegisterNode(ctx, "pub2")
	require.NoError(t, err)
	_, err = b.RegisterNode(ctx, "sub")
	require.NoError(t, err)

	require.NoError(t, b.AddSubscriber(ctx, "sub", "T", "Int"))
	require.NoError(t, b.AddPublisher(ctx, "pub", "T", "Int"))

	err = b.AddPublisher(ctx, "pub2", "T", "Float")
	require.Error(t, err)

	var berr *internalbroker.Error
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, internalbroker.KindFailedPrecondition, berr.Kind)
}

func TestAddPublisherRequiresRegisteredNode(t *testing.T) {
	ctx := context.Background()
	b := newBroker(t)

	err := b.AddPublisher(ctx, "ghost", "T", "Int")
	require.Error(t, err)

	var berr *internalbroker.Error
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, internalbroker.KindFailedPrecondition, berr.Kind)
}

func TestEmptyTopicNameRejected(t *testing.T) {
	ctx := context.Background()
	b := newBroker(t)

	_, err := b.RegisterNode(ctx, "node")
	require.NoError(t, err)

	assertInvalidArgument := func(err error) {
		t.Helper()
		require.Error(t, err)
		var berr *internalbroker.Error
		require.ErrorAs(t, err, &berr)
		assert.Equal(t, internalbroker.KindInvalidArgument, berr.Kind)
	}

	assertInvalidArgument(b.AddPublisher(ctx, "node", "", "Int"))
	assertInvalidArgument(b.AddSubscriber(ctx, "node", "", "Int"))
	assertInvalidArgument(b.RemovePublisher(ctx, "node", ""))
	assertInvalidArgument(b.RemoveSubscriber(ctx, "node", ""))

	_, err = b.GetChannel(ctx, "node", "node", "")
	assertInvalidArgument(err)
}

func TestRemovingOnePublisherRoleKeepsOtherSelfLoopEdges(t *testing.T) {
	ctx := context.Background()
	b := newBroker(t)

	_, err := b.RegisterNode(ctx, "A")
	require.NoError(t, err)
	_, err = b.RegisterNode(ctx, "B")
	require.NoError(t, err)

	require.NoError(t, b.AddSubscriber(ctx, "A", "T", "Int"))
	require.NoError(t, b.AddPublisher(ctx, "B", "T", "Int"))
	require.NoError(t, b.AddPublisher(ctx, "A", "T", "Int"))

	require.NoError(t, b.RemovePublisher(ctx, "A", "T"))

	// Neither endpoint of (B, A) left the topic: B still publishes, A still
	// subscribes. Only A's own (A, A) self-loop edge should be gone.
	channel, err := b.GetChannel(ctx, "B", "A", "T")
	require.NoError(t, err)
	assert.NotEmpty(t, channel)

	_, err = b.GetChannel(ctx, "A", "A", "T")
	require.Error(t, err)
}

func TestCascadeOnNodeDeletion(t *testing.T) {
	ctx := context.Background()
	b := newBroker(t)

	_, err := b.RegisterNode(ctx, "pub")
	require.NoError(t, err)
	_, err = b.RegisterNode(ctx, "sub")
	require.NoError(t, err)

	require.NoError(t, b.AddSubscriber(ctx, "sub", "T", "Int"))
	require.NoError(t, b.AddPublisher(ctx, "pub", "T", "Int"))

	require.NoError(t, b.DeleteNode(ctx, "sub"))

	_, err = b.GetChannel(ctx, "pub", "sub", "T")
	require.Error(t, err)

	require.NoError(t, b.RemovePublisher(ctx, "pub", "T"))

	_, err = b.GetChannel(ctx, "pub", "sub", "T")
	require.Error(t, err)
}

func TestHeartbeatOnUnknownNodeFails(t *testing.T) {
	ctx := context.Background()
	b := newBroker(t)

	err := b.Heartbeat(ctx, "ghost")
	require.Error(t, err)

	var berr *internalbroker.Error
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, internalbroker.KindFailedPrecondition, berr.Kind)
}

func TestReapStaleEvictsExpiredNodes(t *testing.T) {
	ctx := context.Background()
	b := newBroker(t)

	_, err := b.RegisterNode(ctx, "x")
	require.NoError(t, err)

	evicted := b.ReapStale(ctx, time.Now().Add(6*time.Second))
	assert.Equal(t, []string{"x"}, evicted)

	list, err := b.ListNodes(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	err = b.Heartbeat(ctx, "x")
	require.Error(t, err)
}
