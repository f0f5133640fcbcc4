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

// Package broker is the composition root and single coordination-lock owner
// (spec §5). It wires internal/registry/nodes and internal/registry/topics
// together, enforces the cross-registry invariants that only make sense
// once both exist (a node must be registered before it can publish or
// subscribe; deleting a node cascades into topics), and translates registry
// errors into the domain Kind taxonomy of spec §7.
package broker

import (
	"context"
	"sync"
	"time"

	"github.com/ONLYOFFICE/robotbroker/internal/alloc"
	"github.com/ONLYOFFICE/robotbroker/internal/config"
	"github.com/ONLYOFFICE/robotbroker/internal/events"
	"github.com/ONLYOFFICE/robotbroker/internal/log"
	"github.com/ONLYOFFICE/robotbroker/internal/registry/nodes"
	"github.com/ONLYOFFICE/robotbroker/internal/registry/topics"
	microcache "go-micro.dev/v4/cache"
)

const (
	listNodesCacheKey = "nodes:list"
	listNodesCacheTTL = 250 * time.Millisecond
)

// Broker owns the single mutual-exclusion lock covering the Node Registry
// and Topic Registry together (spec §5). Neither registry takes its own
// lock; every exported method here acquires mu before touching either one
// and releases it on every exit path, including failures.
type Broker struct {
	mu     sync.Mutex
	nodes  *nodes.Registry
	topics *topics.Registry
	events *events.Publisher
	cache  microcache.Cache
	logger log.Logger
	now    func() time.Time
}

// New wires a Broker. cache may be nil, in which case ListNodes always
// misses and reads straight through to the Node Registry.
func New(allocator *alloc.Allocator, allocCfg *config.AllocatorConfig, publisher *events.Publisher, cache microcache.Cache, logger log.Logger) *Broker {
	b := &Broker{
		nodes:  nodes.NewRegistry(allocator, allocCfg),
		events: publisher,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
	b.topics = topics.NewRegistry(b.resolveAddress)

	return b
}

func (b *Broker) resolveAddress(name string) (string, bool) {
	node, ok := b.nodes.Get(name)
	if !ok {
		return "", false
	}
	return node.Address, true
}

func (b *Broker) invalidateListCache() {
	if b.cache == nil {
		return
	}
	_ = b.cache.Delete(context.Background(), listNodesCacheKey)
}

// RegisterNode mints an address for name and records it as live (spec §4.2).
func (b *Broker) RegisterNode(ctx context.Context, name string) (nodes.Node, error) {
	if name == "" {
		return nodes.Node{}, newError(KindInvalidArgument, "node_name must not be empty")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	node, err := b.nodes.RegisterNode(name, b.now())
	if err != nil {
		return nodes.Node{}, translateNodeError(err)
	}

	b.invalidateListCache()
	b.logger.Infof("registered node %q at %s", node.Name, node.Address)
	b.events.NodeRegistered(ctx, events.NodeRegistered{Node: node.Name, Address: node.Address})

	return node, nil
}

// DeleteNode removes name and cascades the removal into every topic it
// belonged to (spec §3, §4.2).
func (b *Broker) DeleteNode(ctx context.Context, name string) error {
	if name == "" {
		return newError(KindInvalidArgument, "node_name must not be empty")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return b.deleteNodeLocked(ctx, name)
}

// deleteNodeLocked assumes b.mu is already held.
func (b *Broker) deleteNodeLocked(ctx context.Context, name string) error {
	before := b.topics.TopicsPublishedBy(name)
	before = append(before, b.topics.TopicsSubscribedBy(name)...)

	b.topics.RemoveNode(name)

	for _, topic := range before {
		if _, err := b.topics.GetPublishers(topic); err != nil {
			b.events.TopicDestroyed(ctx, events.TopicDestroyedEvent{Topic: topic})
		}
	}

	if err := b.nodes.DeleteNode(name); err != nil {
		return &Error{Kind: KindFailedPrecondition, Detail: err.Error()}
	}

	b.invalidateListCache()
	b.logger.Infof("deleted node %q", name)

	return nil
}

// Heartbeat refreshes the liveness timestamp for name (spec §4.2).
func (b *Broker) Heartbeat(ctx context.Context, name string) error {
	if name == "" {
		return newError(KindInvalidArgument, "node_name must not be empty")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.nodes.Heartbeat(name, b.now()); err != nil {
		return &Error{Kind: KindFailedPrecondition, Detail: err.Error()}
	}

	return nil
}

// ListNodes returns a snapshot of all registered nodes, served from a
// short-TTL cache under bursty polling (spec §4.2's "unspecified order").
func (b *Broker) ListNodes(ctx context.Context) ([]nodes.Node, error) {
	if b.cache != nil {
		if val, _, err := b.cache.Get(ctx, listNodesCacheKey); err == nil {
			if snapshot, ok := val.([]nodes.Node); ok {
				return snapshot, nil
			}
		}
	}

	b.mu.Lock()
	snapshot := b.nodes.List()
	b.mu.Unlock()

	if b.cache != nil {
		if err := b.cache.Put(ctx, listNodesCacheKey, snapshot, listNodesCacheTTL); err != nil {
			b.logger.Warnf("broker: could not populate nodes cache: %s", err.Error())
		}
	}

	return snapshot, nil
}

// AddPublisher registers node as a publisher of topic (spec §4.3).
func (b *Broker) AddPublisher(ctx context.Context, node, topic, msgType string) error {
	if topic == "" {
		return newError(KindInvalidArgument, "topic_name must not be empty")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.nodes.Get(node); !ok {
		return newError(KindFailedPrecondition, "node %q is not registered", node)
	}

	if err := b.topics.AddPublisher(node, topic, msgType); err != nil {
		return translateTopicError(err)
	}

	b.emitNewEdges(ctx, topic, node, "")
	return nil
}

// AddSubscriber registers node as a subscriber of topic (spec §4.3).
func (b *Broker) AddSubscriber(ctx context.Context, node, topic, msgType string) error {
	if topic == "" {
		return newError(KindInvalidArgument, "topic_name must not be empty")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.nodes.Get(node); !ok {
		return newError(KindFailedPrecondition, "node %q is not registered", node)
	}

	if err := b.topics.AddSubscriber(node, topic, msgType); err != nil {
		return translateTopicError(err)
	}

	b.emitNewEdges(ctx, topic, "", node)
	return nil
}

// emitNewEdges fires an EdgeCreated event for every edge now reachable
// through the newly added publisher or subscriber. newPub/newSub are
// mutually exclusive; whichever is empty is ignored.
func (b *Broker) emitNewEdges(ctx context.Context, topic, newPub, newSub string) {
	if newPub != "" {
		subs, err := b.topics.GetSubscribers(topic)
		if err != nil {
			return
		}
		for _, s := range subs {
			if channel, err := b.topics.GetChannel(newPub, s, topic); err == nil {
				b.events.EdgeCreated(ctx, events.EdgeCreated{Topic: topic, Publisher: newPub, Subscriber: s, ChannelID: channel})
			}
		}
		return
	}

	pubs, err := b.topics.GetPublishers(topic)
	if err != nil {
		return
	}
	for _, p := range pubs {
		if channel, err := b.topics.GetChannel(p, newSub, topic); err == nil {
			b.events.EdgeCreated(ctx, events.EdgeCreated{Topic: topic, Publisher: p, Subscriber: newSub, ChannelID: channel})
		}
	}
}

// RemovePublisher removes node from topic's publisher set (spec §4.3).
func (b *Broker) RemovePublisher(ctx context.Context, node, topic string) error {
	if topic == "" {
		return newError(KindInvalidArgument, "topic_name must not be empty")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	wasLast := b.topicWillBeDestroyedByRemoving(topic, node, true)
	if err := b.topics.RemovePublisher(node, topic); err != nil {
		return translateTopicError(err)
	}
	if wasLast {
		b.events.TopicDestroyed(ctx, events.TopicDestroyedEvent{Topic: topic})
	}

	return nil
}

// RemoveSubscriber removes node from topic's subscriber set (spec §4.3).
func (b *Broker) RemoveSubscriber(ctx context.Context, node, topic string) error {
	if topic == "" {
		return newError(KindInvalidArgument, "topic_name must not be empty")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	wasLast := b.topicWillBeDestroyedByRemoving(topic, node, false)
	if err := b.topics.RemoveSubscriber(node, topic); err != nil {
		return translateTopicError(err)
	}
	if wasLast {
		b.events.TopicDestroyed(ctx, events.TopicDestroyedEvent{Topic: topic})
	}

	return nil
}

func (b *Broker) topicWillBeDestroyedByRemoving(topic, node string, removingPublisher bool) bool {
	pubs, err := b.topics.GetPublishers(topic)
	if err != nil {
		return false
	}
	subs, err := b.topics.GetSubscribers(topic)
	if err != nil {
		return false
	}

	remainingPubs := len(pubs)
	remainingSubs := len(subs)
	if removingPublisher {
		remainingPubs--
	} else {
		remainingSubs--
	}

	return remainingPubs <= 0 && remainingSubs <= 0
}

// GetChannel returns the channel_id minted for (publisher, subscriber) on
// topic (spec §4.3).
func (b *Broker) GetChannel(ctx context.Context, publisher, subscriber, topic string) (string, error) {
	if topic == "" {
		return "", newError(KindInvalidArgument, "topic_name must not be empty")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	channel, err := b.topics.GetChannel(publisher, subscriber, topic)
	if err != nil {
		return "", translateTopicError(err)
	}

	return channel, nil
}

// StaleCandidate is a node whose heartbeat has gone stale, offered to the
// Reaper's optional active-probe mode before eviction.
type StaleCandidate struct {
	Name    string
	Address string
}

// StaleCandidates returns every node whose heartbeat precedes cutoff without
// evicting them, for the Reaper's active-probe mode (SPEC_FULL.md) to give
// one last liveness check before ReapStale runs.
func (b *Broker) StaleCandidates(cutoff time.Time) []StaleCandidate {
	b.mu.Lock()
	defer b.mu.Unlock()

	names := b.nodes.StaleBefore(cutoff)
	candidates := make([]StaleCandidate, 0, len(names))
	for _, name := range names {
		if node, ok := b.nodes.Get(name); ok {
			candidates = append(candidates, StaleCandidate{Name: node.Name, Address: node.Address})
		}
	}

	return candidates
}

// ReapStale evicts every node whose last heartbeat precedes cutoff,
// cascading into topics exactly as DeleteNode would (spec §4.6). Returns the
// names of evicted nodes.
func (b *Broker) ReapStale(ctx context.Context, cutoff time.Time) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	stale := b.nodes.StaleBefore(cutoff)
	for _, name := range stale {
		node, _ := b.nodes.Get(name)
		lastHeartbeat := node.LastHeartbeat

		if err := b.deleteNodeLocked(ctx, name); err != nil {
			b.logger.Warnf("reaper: could not evict %q: %s", name, err.Error())
			continue
		}
		b.events.NodeEvicted(ctx, events.NodeEvicted{Node: name, LastHeartbeat: lastHeartbeat.Format(time.RFC3339)})
	}

	return stale
}

func translateNodeError(err error) error {
	switch err.(type) {
	case *nodes.AlreadyExistsError:
		return &Error{Kind: KindAlreadyExists, Detail: err.Error()}
	case *nodes.NotRegisteredError:
		return &Error{Kind: KindFailedPrecondition, Detail: err.Error()}
	default:
		return &Error{Kind: KindInternal, Detail: err.Error()}
	}
}

func translateTopicError(err error) error {
	switch err.(type) {
	case *topics.NotFoundError:
		return &Error{Kind: KindNotFound, Detail: err.Error()}
	case *topics.AlreadyMemberError:
		return &Error{Kind: KindAlreadyExists, Detail: err.Error()}
	case *topics.TypeMismatchError:
		return &Error{Kind: KindFailedPrecondition, Detail: err.Error()}
	default:
		return &Error{Kind: KindInternal, Detail: err.Error()}
	}
}
