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

package rpc

import (
	"errors"

	internalbroker "github.com/ONLYOFFICE/robotbroker/internal/broker"
	microerrors "go-micro.dev/v4/errors"
)

// serviceID tags every wire error with the RPC surface that raised it, the
// same convention go-micro's own helpers use for the id argument.
const serviceID = "robot.broker"

// ToRPCError translates a domain error into a go-micro wire error, keeping
// the Kind vocabulary of spec §7 decoupled from the wire status vocabulary
// (spec §9's "Error mapping" note).
func ToRPCError(err error) error {
	if err == nil {
		return nil
	}

	var berr *internalbroker.Error
	if !errors.As(err, &berr) {
		return microerrors.InternalServerError(serviceID, err.Error())
	}

	switch berr.Kind {
	case internalbroker.KindInvalidArgument:
		return microerrors.BadRequest(serviceID, berr.Detail)
	case internalbroker.KindAlreadyExists:
		return microerrors.Conflict(serviceID, berr.Detail)
	case internalbroker.KindNotFound:
		return microerrors.NotFound(serviceID, berr.Detail)
	case internalbroker.KindFailedPrecondition:
		return microerrors.New(serviceID, berr.Detail, 412)
	case internalbroker.KindInternal:
		return microerrors.InternalServerError(serviceID, berr.Detail)
	default:
		return microerrors.InternalServerError(serviceID, berr.Detail)
	}
}
