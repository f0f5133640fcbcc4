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

package broker

import "fmt"

// Kind is the broker's domain error taxonomy (spec §7), deliberately kept
// separate from the wire status codes internal/rpc maps it to.
type Kind int

const (
	// KindInvalidArgument marks an empty name or otherwise malformed request.
	KindInvalidArgument Kind = iota
	// KindAlreadyExists marks a duplicate node name or topic membership.
	KindAlreadyExists
	// KindNotFound marks a reference to a nonexistent topic, edge, or node.
	KindNotFound
	// KindFailedPrecondition marks a heartbeat/delete against an unknown
	// node, or a topic msg_type mismatch.
	KindFailedPrecondition
	// KindInternal marks an allocator failure or unexpected invariant
	// violation; never a caller mistake.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindAlreadyExists:
		return "AlreadyExists"
	case KindNotFound:
		return "NotFound"
	case KindFailedPrecondition:
		return "FailedPrecondition"
	case KindInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Error is the broker's domain error type. internal/rpc translates Kind into
// a wire status code; callers inside this package never need to know about
// the wire protocol.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
