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

// Package events publishes fire-and-forget domain notifications onto an
// in-process go-micro broker, grounded on pkg/messaging/broker.go. Nothing
// in the coordination path consumes these synchronously: the in-memory
// registries remain the single source of truth, per spec §9's no-cyclic-
// ownership note. This is observability plumbing for an operator sidecar.
package events

import (
	"context"
	"encoding/json"

	"github.com/ONLYOFFICE/robotbroker/internal/log"
	"go-micro.dev/v4/broker"
)

// Topic names published by the broker's Matcher and Reaper.
const (
	TopicEdgeCreated  = "topic.edge.created"
	TopicDestroyed    = "topic.destroyed"
	TopicNodeEvicted  = "node.evicted"
	TopicNodeRegister = "node.registered"
)

// EdgeCreated is published after the Matcher mints a new (publisher,
// subscriber) edge on a topic (spec §4.4).
type EdgeCreated struct {
	Topic      string `json:"topic"`
	Publisher  string `json:"publisher"`
	Subscriber string `json:"subscriber"`
	ChannelID  string `json:"channel_id"`
}

// TopicDestroyedEvent is published when a topic's publisher and subscriber
// sets both become empty (spec §3).
type TopicDestroyedEvent struct {
	Topic string `json:"topic"`
}

// NodeEvicted is published by the Liveness Reaper when it removes a node for
// staleness (spec §4.6).
type NodeEvicted struct {
	Node          string `json:"node"`
	LastHeartbeat string `json:"last_heartbeat"`
}

// NodeRegistered is published when a node successfully registers.
type NodeRegistered struct {
	Node    string `json:"node"`
	Address string `json:"address"`
}

// Publisher publishes domain events. A *Publisher wrapping a nil broker.Broker
// is valid and silently drops everything, so tests never need a live broker.
type Publisher struct {
	broker broker.Broker
	logger log.Logger
}

// NewPublisher wraps b (already Init'd and Connect'd by the caller, mirroring
// pkg/service/rpc/service.go's broker lifecycle) for domain event emission.
func NewPublisher(b broker.Broker, logger log.Logger) *Publisher {
	return &Publisher{broker: b, logger: logger}
}

func (p *Publisher) publish(ctx context.Context, topic string, payload interface{}) {
	if p == nil || p.broker == nil {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Warnf("events: could not marshal %s payload: %s", topic, err.Error())
		return
	}

	if err := p.broker.Publish(topic, &broker.Message{Body: body}); err != nil {
		p.logger.Warnf("events: could not publish %s: %s", topic, err.Error())
	}
}

// EdgeCreated publishes a TopicEdgeCreated notification.
func (p *Publisher) EdgeCreated(ctx context.Context, e EdgeCreated) {
	p.publish(ctx, TopicEdgeCreated, e)
}

// TopicDestroyed publishes a TopicDestroyed notification.
func (p *Publisher) TopicDestroyed(ctx context.Context, e TopicDestroyedEvent) {
	p.publish(ctx, TopicDestroyed, e)
}

// NodeEvicted publishes a NodeEvicted notification.
func (p *Publisher) NodeEvicted(ctx context.Context, e NodeEvicted) {
	p.publish(ctx, TopicNodeEvicted, e)
}

// NodeRegistered publishes a NodeRegistered notification.
func (p *Publisher) NodeRegistered(ctx context.Context, e NodeRegistered) {
	p.publish(ctx, TopicNodeRegister, e)
}
