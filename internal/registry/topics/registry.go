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

package topics

// Registry tracks typed topics and their publisher/subscriber membership,
// minting edges through the Matcher as nodes join (spec §4.3). Like
// nodes.Registry, it takes no lock of its own; internal/broker.Broker must
// hold the single coordination mutex around every call.
type Registry struct {
	storage Storage
	resolve AddressResolver
}

// NewRegistry wires a Registry backed by an in-memory Storage. resolve is
// used by the Matcher to look up a subscriber's address when minting edges.
func NewRegistry(resolve AddressResolver) *Registry {
	return &Registry{storage: newMemoryStorage(), resolve: resolve}
}

// AddPublisher registers node as a publisher of topic, declaring msgType.
// Creates the topic lazily if absent; fails AlreadyMemberError if node is
// already a publisher, TypeMismatchError if msgType conflicts with the
// topic's established type.
func (r *Registry) AddPublisher(node, topic, msgType string) error {
	t, existed := r.storage.Get(topic)
	if !existed {
		t = newTopic(topic, msgType)
	} else if t.MsgType != msgType {
		return &TypeMismatchError{Topic: topic, Declared: msgType, Existing: t.MsgType}
	}

	if _, ok := t.Publishers[node]; ok {
		return &AlreadyMemberError{Node: node, Topic: topic, Role: "publisher"}
	}

	t.Publishers[node] = struct{}{}
	matchPublisher(&t, r.resolve, node)
	r.storage.Put(t)

	return nil
}

// AddSubscriber is the symmetric counterpart of AddPublisher.
func (r *Registry) AddSubscriber(node, topic, msgType string) error {
	t, existed := r.storage.Get(topic)
	if !existed {
		t = newTopic(topic, msgType)
	} else if t.MsgType != msgType {
		return &TypeMismatchError{Topic: topic, Declared: msgType, Existing: t.MsgType}
	}

	if _, ok := t.Subscribers[node]; ok {
		return &AlreadyMemberError{Node: node, Topic: topic, Role: "subscriber"}
	}

	t.Subscribers[node] = struct{}{}
	matchSubscriber(&t, r.resolve, node)
	r.storage.Put(t)

	return nil
}

// RemovePublisher removes node from topic's publisher set and every edge it
// holds there, destroying the topic if it becomes empty.
func (r *Registry) RemovePublisher(node, topic string) error {
	t, ok := r.storage.Get(topic)
	if !ok {
		return &NotFoundError{Topic: topic}
	}

	delete(t.Publishers, node)
	dropEdgesForPublisher(&t, node)
	r.commitOrDestroy(t)

	return nil
}

// RemoveSubscriber is the symmetric counterpart of RemovePublisher.
func (r *Registry) RemoveSubscriber(node, topic string) error {
	t, ok := r.storage.Get(topic)
	if !ok {
		return &NotFoundError{Topic: topic}
	}

	delete(t.Subscribers, node)
	dropEdgesForSubscriber(&t, node)
	r.commitOrDestroy(t)

	return nil
}

func (r *Registry) commitOrDestroy(t Topic) {
	if t.Empty() {
		r.storage.Delete(t.Name)
		return
	}
	r.storage.Put(t)
}

// GetChannel returns the channel_id minted for the (publisher, subscriber)
// edge on topic.
func (r *Registry) GetChannel(publisher, subscriber, topic string) (string, error) {
	t, ok := r.storage.Get(topic)
	if !ok {
		return "", &NotFoundError{Topic: topic}
	}

	channel, ok := t.Edges[edgeKey{Publisher: publisher, Subscriber: subscriber}]
	if !ok {
		return "", &NotFoundError{Topic: topic, Edge: "no such edge"}
	}

	return channel, nil
}

// GetPublishers returns a snapshot of topic's publisher set.
func (r *Registry) GetPublishers(topic string) ([]string, error) {
	t, ok := r.storage.Get(topic)
	if !ok {
		return nil, &NotFoundError{Topic: topic}
	}
	return t.PublisherNames(), nil
}

// GetSubscribers returns a snapshot of topic's subscriber set.
func (r *Registry) GetSubscribers(topic string) ([]string, error) {
	t, ok := r.storage.Get(topic)
	if !ok {
		return nil, &NotFoundError{Topic: topic}
	}
	return t.SubscriberNames(), nil
}

// TopicsPublishedBy returns every topic name on which node is a publisher.
// An empty result is valid, not an error.
func (r *Registry) TopicsPublishedBy(node string) []string {
	var out []string
	for _, t := range r.storage.List() {
		if _, ok := t.Publishers[node]; ok {
			out = append(out, t.Name)
		}
	}
	return out
}

// TopicsSubscribedBy returns every topic name on which node is a subscriber.
func (r *Registry) TopicsSubscribedBy(node string) []string {
	var out []string
	for _, t := range r.storage.List() {
		if _, ok := t.Subscribers[node]; ok {
			out = append(out, t.Name)
		}
	}
	return out
}

// RemoveNode cascades a node's destruction into every topic it belongs to,
// as either publisher or subscriber, atomically from the caller's point of
// view (spec §3's "destruction cascades", §4.3's cascading removal).
func (r *Registry) RemoveNode(node string) {
	for _, t := range r.storage.List() {
		_, isPub := t.Publishers[node]
		_, isSub := t.Subscribers[node]
		if !isPub && !isSub {
			continue
		}

		delete(t.Publishers, node)
		delete(t.Subscribers, node)
		dropEdgesFor(&t, node)
		r.commitOrDestroy(t)
	}
}
