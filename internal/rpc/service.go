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
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/ONLYOFFICE/robotbroker/internal/config"
	"go-micro.dev/v4"
	"go-micro.dev/v4/broker"
	"go-micro.dev/v4/client"
	"go-micro.dev/v4/registry"
	"go-micro.dev/v4/server"
)

// NewService wires the broker's go-micro service: one handler struct
// registered on a loopback-bound server, trimmed from
// pkg/service/rpc/service.go (no resilience/tracing wrappers — spec §1
// scopes clustering and the broker-as-caller concerns out entirely; this
// broker is always the callee).
func NewService(
	handler BrokerHandler,
	cl client.Client,
	reg registry.Registry,
	br broker.Broker,
	cfg *config.ServerConfig,
) micro.Service {
	if err := br.Init(); err != nil {
		log.Fatalf("could not initialize the event broker: %s", err.Error())
	}

	if err := br.Connect(); err != nil {
		log.Fatalf("event broker connection error: %s", err.Error())
	}

	name := strings.Join([]string{cfg.Namespace, cfg.Name}, ":")

	service := micro.NewService(
		micro.Name(name),
		micro.Version(strconv.Itoa(cfg.Version)),
		micro.Context(context.Background()),
		micro.Server(server.NewServer(
			server.Name(name),
			server.Address(cfg.Address),
		)),
		micro.Registry(reg),
		micro.Broker(br),
		micro.Client(cl),
		micro.RegisterTTL(30*time.Second),
		micro.RegisterInterval(10*time.Second),
	)

	if err := micro.RegisterHandler(service.Server(), handler); err != nil {
		log.Fatalf("could not register broker rpc handlers: %s", err.Error())
	}

	return service
}
