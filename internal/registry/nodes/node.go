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

// Package nodes implements the broker's Node Registry (spec §3, §4.2): node
// identity, address issuance, and heartbeat liveness. None of the exported
// types here take their own lock — the Broker (internal/broker) is the sole
// owner of the coordination mutex that makes every call here safe, per
// spec §5's single-lock discipline.
package nodes

import "time"

// Node is a registered worker process.
type Node struct {
	Name          string
	Address       string
	LastHeartbeat time.Time
}
