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

package rpc_test

import (
	"errors"
	"testing"

	internalbroker "github.com/ONLYOFFICE/robotbroker/internal/broker"
	"github.com/ONLYOFFICE/robotbroker/internal/rpc"
	"github.com/stretchr/testify/assert"
	microerrors "go-micro.dev/v4/errors"
)

func TestToRPCErrorMapsEachKind(t *testing.T) {
	cases := []struct {
		kind internalbroker.Kind
		code int32
	}{
		{internalbroker.KindInvalidArgument, 400},
		{internalbroker.KindAlreadyExists, 409},
		{internalbroker.KindNotFound, 404},
		{internalbroker.KindFailedPrecondition, 412},
		{internalbroker.KindInternal, 500},
	}

	for _, c := range cases {
		domainErr := &internalbroker.Error{Kind: c.kind, Detail: "boom"}
		wireErr := rpc.ToRPCError(domainErr)

		var merr *microerrors.Error
		assert.ErrorAs(t, wireErr, &merr)
		assert.Equal(t, c.code, merr.Code)
	}
}

func TestToRPCErrorWrapsUnknownErrors(t *testing.T) {
	wireErr := rpc.ToRPCError(errors.New("not a domain error"))

	var merr *microerrors.Error
	assert.ErrorAs(t, wireErr, &merr)
	assert.Equal(t, int32(500), merr.Code)
}

func TestToRPCErrorPassesThroughNil(t *testing.T) {
	assert.Nil(t, rpc.ToRPCError(nil))
}
