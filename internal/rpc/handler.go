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

package rpc

import (
	"context"

	"github.com/ONLYOFFICE/robotbroker/internal/broker"
	"github.com/ONLYOFFICE/robotbroker/internal/log"
	"github.com/google/uuid"
)

// BrokerHandler exposes internal/broker.Broker as a go-micro RPC handler,
// one method per request in spec §6's table, following the
// handler.UserInsertHandler/UserSelectHandler shape of services/auth/web.
type BrokerHandler struct {
	broker *broker.Broker
	logger log.Logger
}

// NewBrokerHandler constructs a BrokerHandler for registration via
// micro.RegisterHandler.
func NewBrokerHandler(b *broker.Broker, logger log.Logger) BrokerHandler {
	return BrokerHandler{broker: b, logger: logger}
}

// correlate stamps every inbound call with a request id for log correlation,
// grounded on the pack's broad use of google/uuid for request identifiers.
func (h BrokerHandler) correlate(method string) string {
	id := uuid.New().String()
	h.logger.Debugf("rpc[%s]: handling request %s", method, id)
	return id
}

func (h BrokerHandler) RegisterNode(ctx context.Context, req *RegisterNodeRequest, res *RegisterNodeResponse) error {
	h.correlate("RegisterNode")

	node, err := h.broker.RegisterNode(ctx, req.NodeName)
	if err != nil {
		return ToRPCError(err)
	}

	res.Address = node.Address
	return nil
}

func (h BrokerHandler) DeleteNode(ctx context.Context, req *DeleteNodeRequest, res *DeleteNodeResponse) error {
	h.correlate("DeleteNode")

	if err := h.broker.DeleteNode(ctx, req.NodeName); err != nil {
		return ToRPCError(err)
	}

	return nil
}

func (h BrokerHandler) Heartbeat(ctx context.Context, req *HeartbeatRequest, res *HeartbeatResponse) error {
	h.correlate("Heartbeat")

	if err := h.broker.Heartbeat(ctx, req.NodeName); err != nil {
		return ToRPCError(err)
	}

	return nil
}

func (h BrokerHandler) ListNodes(ctx context.Context, req *ListNodesRequest, res *ListNodesResponse) error {
	h.correlate("ListNodes")

	nodeList, err := h.broker.ListNodes(ctx)
	if err != nil {
		return ToRPCError(err)
	}

	res.Nodes = make([]NodeSummary, 0, len(nodeList))
	for _, n := range nodeList {
		res.Nodes = append(res.Nodes, NodeSummary{Name: n.Name})
	}

	return nil
}

func (h BrokerHandler) AddPublisher(ctx context.Context, req *AddPublisherRequest, res *AddPublisherResponse) error {
	h.correlate("AddPublisher")

	if err := h.broker.AddPublisher(ctx, req.NodeName, req.TopicName, req.MsgType); err != nil {
		return ToRPCError(err)
	}

	return nil
}

func (h BrokerHandler) AddSubscriber(ctx context.Context, req *AddSubscriberRequest, res *AddSubscriberResponse) error {
	h.correlate("AddSubscriber")

	if err := h.broker.AddSubscriber(ctx, req.NodeName, req.TopicName, req.MsgType); err != nil {
		return ToRPCError(err)
	}

	return nil
}

func (h BrokerHandler) RemovePublisher(ctx context.Context, req *RemovePublisherRequest, res *RemovePublisherResponse) error {
	h.correlate("RemovePublisher")

	if err := h.broker.RemovePublisher(ctx, req.NodeName, req.TopicName); err != nil {
		return ToRPCError(err)
	}

	return nil
}

func (h BrokerHandler) RemoveSubscriber(ctx context.Context, req *RemoveSubscriberRequest, res *RemoveSubscriberResponse) error {
	h.correlate("RemoveSubscriber")

	if err := h.broker.RemoveSubscriber(ctx, req.NodeName, req.TopicName); err != nil {
		return ToRPCError(err)
	}

	return nil
}

func (h BrokerHandler) GetChannel(ctx context.Context, req *GetChannelRequest, res *GetChannelResponse) error {
	h.correlate("GetChannel")

	channel, err := h.broker.GetChannel(ctx, req.Publisher, req.Subscriber, req.Topic)
	if err != nil {
		return ToRPCError(err)
	}

	res.ChannelID = channel
	return nil
}
