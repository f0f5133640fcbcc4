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

// Package nodeclient is a minimal stub of the worker-side client library
// spec §1 scopes out of the broker's core. The broker is a client of a
// node's own per-node endpoint only through the Liveness Reaper's optional
// active probe (spec §4.6); this package exists solely to support that, not
// to be a complete client library. Grounded on the original Rust source's
// NodeHandle, which dials the node's Unix Domain Socket endpoint directly
// rather than through go-micro's own transport — go-micro.dev/v4/client
// has no ready-made Unix-socket dialer in this stack, so this one function
// falls back to net.Dial("unix", ...), justified in DESIGN.md.
package nodeclient

import (
	"context"
	"fmt"
	"net"
)

// Ping dials address (a Unix Domain Socket path issued by internal/alloc)
// and confirms the node's per-node server accepts a connection. It does not
// speak the node's own RPC protocol — that protocol is deliberately out of
// scope (spec §1) — so a successful dial is treated as liveness evidence.
func Ping(ctx context.Context, address string) error {
	var dialer net.Dialer

	conn, err := dialer.DialContext(ctx, "unix", address)
	if err != nil {
		return fmt.Errorf("nodeclient: ping %s: %w", address, err)
	}

	return conn.Close()
}
