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

// AddressResolver looks up the local-socket address a node was issued by
// the Node Registry. The Matcher uses it to mint channel_ids: a publisher
// reaches a subscriber at the subscriber's own address (spec §4.4, §6).
type AddressResolver func(node string) (address string, ok bool)

// matchPublisher mints one edge (p, s) for every subscriber s already on the
// topic that p does not yet have an edge to. Idempotent: existing edges are
// left untouched, never replaced (spec §4.4).
func matchPublisher(t *Topic, resolve AddressResolver, p string) {
	for s := range t.Subscribers {
		key := edgeKey{Publisher: p, Subscriber: s}
		if _, exists := t.Edges[key]; exists {
			continue
		}

		if address, ok := resolve(s); ok {
			t.Edges[key] = address
		}
	}
}

// matchSubscriber mints one edge (p, s) for every publisher p already on the
// topic, from the perspective of a newly added subscriber s. The channel_id
// is still s's own address: publishers always connect to subscribers.
func matchSubscriber(t *Topic, resolve AddressResolver, s string) {
	address, ok := resolve(s)
	if !ok {
		return
	}

	for p := range t.Publishers {
		key := edgeKey{Publisher: p, Subscriber: s}
		if _, exists := t.Edges[key]; exists {
			continue
		}

		t.Edges[key] = address
	}
}

// dropEdgesFor removes every edge mentioning node, whichever side it's on.
// Used only by the node-deletion cascade (RemoveNode), where node leaves the
// topic entirely on both roles at once.
func dropEdgesFor(t *Topic, node string) {
	for key := range t.Edges {
		if key.Publisher == node || key.Subscriber == node {
			delete(t.Edges, key)
		}
	}
}

// dropEdgesForPublisher removes only the edges where node is the publisher
// side. A self-loop node that remains a subscriber keeps its edges from
// other publishers (spec §4.4: an edge dies only when one of its two actual
// endpoints leaves, not when the node leaves some other role on the topic).
func dropEdgesForPublisher(t *Topic, node string) {
	for key := range t.Edges {
		if key.Publisher == node {
			delete(t.Edges, key)
		}
	}
}

// dropEdgesForSubscriber is the symmetric counterpart of
// dropEdgesForPublisher, removing only edges where node is the subscriber.
func dropEdgesForSubscriber(t *Topic, node string) {
	for key := range t.Edges {
		if key.Subscriber == node {
			delete(t.Edges, key)
		}
	}
}
