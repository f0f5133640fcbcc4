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

package nodes

import "fmt"

// AlreadyExistsError is returned when RegisterNode names a node that is
// already registered (spec §4.2).
type AlreadyExistsError struct {
	Name string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("node %q is already registered", e.Name)
}

// NotRegisteredError is returned by Heartbeat and DeleteNode when the named
// node does not exist (spec §4.2).
type NotRegisteredError struct {
	Name string
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("node %q is not registered", e.Name)
}
