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

// Package rpc is the RPC Surface (spec §4.5): it decodes requests, takes the
// broker's single coordination lock via internal/broker.Broker, and encodes
// responses, translating domain errors into wire status codes per spec §7.
package rpc

// Request/response pairs mirror spec §6's table exactly; field names match
// the wire contract (node_name, topic_name, msg_type, ...) that the
// worker-side client library (out of scope, spec §1) is written against.

type RegisterNodeRequest struct {
	NodeName string `json:"node_name"`
}

type RegisterNodeResponse struct {
	Address string `json:"address"`
}

type DeleteNodeRequest struct {
	NodeName string `json:"node_name"`
}

type DeleteNodeResponse struct{}

type HeartbeatRequest struct {
	NodeName string `json:"node_name"`
}

type HeartbeatResponse struct{}

type ListNodesRequest struct{}

type NodeSummary struct {
	Name string `json:"name"`
}

type ListNodesResponse struct {
	Nodes []NodeSummary `json:"nodes"`
}

type AddPublisherRequest struct {
	NodeName  string `json:"node_name"`
	TopicName string `json:"topic_name"`
	MsgType   string `json:"msg_type"`
}

type AddPublisherResponse struct{}

type AddSubscriberRequest struct {
	NodeName  string `json:"node_name"`
	TopicName string `json:"topic_name"`
	MsgType   string `json:"msg_type"`
}

type AddSubscriberResponse struct{}

type RemovePublisherRequest struct {
	NodeName  string `json:"node_name"`
	TopicName string `json:"topic_name"`
}

type RemovePublisherResponse struct{}

type RemoveSubscriberRequest struct {
	NodeName  string `json:"node_name"`
	TopicName string `json:"topic_name"`
}

type RemoveSubscriberResponse struct{}

type GetChannelRequest struct {
	Publisher  string `json:"publisher"`
	Subscriber string `json:"subscriber"`
	Topic      string `json:"topic"`
}

type GetChannelResponse struct {
	ChannelID string `json:"channel_id"`
}
