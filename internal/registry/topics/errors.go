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

import "fmt"

// NotFoundError is returned when an operation references a topic or edge
// that does not exist (spec §4.3, §7).
type NotFoundError struct {
	Topic string
	Edge  string
}

func (e *NotFoundError) Error() string {
	if e.Edge != "" {
		return fmt.Sprintf("topic %q: %s", e.Topic, e.Edge)
	}
	return fmt.Sprintf("topic %q does not exist", e.Topic)
}

// AlreadyMemberError is returned when a node is added to a topic role
// (publisher or subscriber) it already occupies.
type AlreadyMemberError struct {
	Node  string
	Topic string
	Role  string
}

func (e *AlreadyMemberError) Error() string {
	return fmt.Sprintf("node %q is already a %s of topic %q", e.Node, e.Role, e.Topic)
}

// TypeMismatchError is returned when a request declares a msg_type that
// conflicts with the topic's already-established type.
type TypeMismatchError struct {
	Topic    string
	Declared string
	Existing string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("topic %q has type %q, got %q", e.Topic, e.Existing, e.Declared)
}
