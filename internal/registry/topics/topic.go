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

// Package topics implements the broker's Topic Registry and Matcher/Edge
// Issuer (spec §4.3, §4.4): typed topics, publisher/subscriber membership,
// and the edge bookkeeping between them. As with internal/registry/nodes,
// nothing here takes its own lock — internal/broker.Broker is the sole
// owner of the coordination mutex.
package topics

// edgeKey identifies one directed (publisher, subscriber) pairing within a
// topic. A node may appear on both sides (self-loop, per the glossary).
type edgeKey struct {
	Publisher  string
	Subscriber string
}

// Topic is a named, typed channel-of-channels (spec §3). The zero value is
// not meaningful; use newTopic.
type Topic struct {
	Name        string
	MsgType     string
	Publishers  map[string]struct{}
	Subscribers map[string]struct{}
	Edges       map[edgeKey]string
}

func newTopic(name, msgType string) Topic {
	return Topic{
		Name:        name,
		MsgType:     msgType,
		Publishers:  make(map[string]struct{}),
		Subscribers: make(map[string]struct{}),
		Edges:       make(map[edgeKey]string),
	}
}

// Empty reports whether the topic has no publishers and no subscribers, the
// condition under which spec §3 says it must be destroyed.
func (t Topic) Empty() bool {
	return len(t.Publishers) == 0 && len(t.Subscribers) == 0
}

// PublisherNames returns a snapshot slice of the topic's publisher set.
func (t Topic) PublisherNames() []string {
	return keys(t.Publishers)
}

// SubscriberNames returns a snapshot slice of the topic's subscriber set.
func (t Topic) SubscriberNames() []string {
	return keys(t.Subscribers)
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
