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

package rpc_test

import (
	"context"
	"testing"

	"github.com/ONLYOFFICE/robotbroker/internal/alloc"
	internalbroker "github.com/ONLYOFFICE/robotbroker/internal/broker"
	"github.com/ONLYOFFICE/robotbroker/internal/cache"
	"github.com/ONLYOFFICE/robotbroker/internal/config"
	"github.com/ONLYOFFICE/robotbroker/internal/events"
	"github.com/ONLYOFFICE/robotbroker/internal/log"
	"github.com/ONLYOFFICE/robotbroker/internal/rpc"
	"github.com/stretchr/testify/require"
	microerrors "go-micro.dev/v4/errors"
)

func newHandler(t *testing.T) rpc.BrokerHandler {
	t.Helper()

	allocCfg := &config.AllocatorConfig{}
	allocCfg.Allocator.ScratchParent = t.TempDir()
	allocCfg.Allocator.TokenLength = 20

	a, err := alloc.New(allocCfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	b := internalbroker.New(a, allocCfg, events.NewPublisher(nil, log.NewNopLogger()), cache.NewCache(), log.NewNopLogger())
	return rpc.NewBrokerHandler(b, log.NewNopLogger())
}

func TestRegisterNodeHandlerReturnsAddress(t *testing.T) {
	h := newHandler(t)

	res := &rpc.RegisterNodeResponse{}
	err := h.RegisterNode(context.Background(), &rpc.RegisterNodeRequest{NodeName: "alpha"}, res)

	require.NoError(t, err)
	require.NotEmpty(t, res.Address)
}

func TestRegisterNodeHandlerDuplicateMapsToConflict(t *testing.T) {
	h := newHandler(t)
	ctx := context.Background()

	require.NoError(t, h.RegisterNode(ctx, &rpc.RegisterNodeRequest{NodeName: "alpha"}, &rpc.RegisterNodeResponse{}))

	err := h.RegisterNode(ctx, &rpc.RegisterNodeRequest{NodeName: "alpha"}, &rpc.RegisterNodeResponse{})
	require.Error(t, err)

	var merr *microerrors.Error
	require.ErrorAs(t, err, &merr)
	require.Equal(t, int32(409), merr.Code)
}

func TestGetChannelHandlerEndToEnd(t *testing.T) {
	h := newHandler(t)
	ctx := context.Background()

	var regRes rpc.RegisterNodeResponse
	require.NoError(t, h.RegisterNode(ctx, &rpc.RegisterNodeRequest{NodeName: "sub"}, &regRes))
	require.NoError(t, h.RegisterNode(ctx, &rpc.RegisterNodeRequest{NodeName: "pub"}, &rpc.RegisterNodeResponse{}))

	require.NoError(t, h.AddSubscriber(ctx, &rpc.AddSubscriberRequest{NodeName: "sub", TopicName: "T", MsgType: "Int"}, &rpc.AddSubscriberResponse{}))
	require.NoError(t, h.AddPublisher(ctx, &rpc.AddPublisherRequest{NodeName: "pub", TopicName: "T", MsgType: "Int"}, &rpc.AddPublisherResponse{}))

	var channelRes rpc.GetChannelResponse
	require.NoError(t, h.GetChannel(ctx, &rpc.GetChannelRequest{Publisher: "pub", Subscriber: "sub", Topic: "T"}, &channelRes))
	require.Equal(t, regRes.Address, channelRes.ChannelID)
}

func TestGetChannelHandlerUnknownTopicMapsToNotFound(t *testing.T) {
	h := newHandler(t)

	err := h.GetChannel(context.Background(), &rpc.GetChannelRequest{Publisher: "p", Subscriber: "s", Topic: "ghost"}, &rpc.GetChannelResponse{})
	require.Error(t, err)

	var merr *microerrors.Error
	require.ErrorAs(t, err, &merr)
	require.Equal(t, int32(404), merr.Code)
}

func TestListNodesHandlerReturnsSummaries(t *testing.T) {
	h := newHandler(t)
	ctx := context.Background()

	require.NoError(t, h.RegisterNode(ctx, &rpc.RegisterNodeRequest{NodeName: "alpha"}, &rpc.RegisterNodeResponse{}))
	require.NoError(t, h.RegisterNode(ctx, &rpc.RegisterNodeRequest{NodeName: "beta"}, &rpc.RegisterNodeResponse{}))

	var res rpc.ListNodesResponse
	require.NoError(t, h.ListNodes(ctx, &rpc.ListNodesRequest{}, &res))
	require.Len(t, res.Nodes, 2)
}
