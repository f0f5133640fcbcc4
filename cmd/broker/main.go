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

// Command broker runs the robot broker: service discovery and pub/sub
// coordination for a fleet of worker nodes on a single host (spec §1).
//
// Process bootstrap and CLI argument parsing are explicitly out of the
// core's scope (spec §1) but still needed for a runnable binary; this
// mirrors the original broker-master/src/bin/broker.rs entrypoint with a
// single -config flag, superseding urfave/cli since there are no
// subcommands to dispatch.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/ONLYOFFICE/robotbroker/internal/alloc"
	"github.com/ONLYOFFICE/robotbroker/internal/broker"
	"github.com/ONLYOFFICE/robotbroker/internal/cache"
	"github.com/ONLYOFFICE/robotbroker/internal/config"
	"github.com/ONLYOFFICE/robotbroker/internal/discovery"
	"github.com/ONLYOFFICE/robotbroker/internal/events"
	"github.com/ONLYOFFICE/robotbroker/internal/log"
	"github.com/ONLYOFFICE/robotbroker/internal/reaper"
	"github.com/ONLYOFFICE/robotbroker/internal/rpc"
	"github.com/go-micro/plugins/v4/broker/memory"
	"go-micro.dev/v4"
	microbroker "go-micro.dev/v4/broker"
	"go-micro.dev/v4/client"
	"go-micro.dev/v4/registry"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func newMemoryBroker() microbroker.Broker {
	return memory.NewBroker()
}

func newClient(reg registry.Registry, br microbroker.Broker) client.Client {
	return client.NewClient(
		client.Registry(reg),
		client.Broker(br),
	)
}

func registerLifecycle(lifecycle fx.Lifecycle, service micro.Service, r *reaper.Reaper, allocator *alloc.Allocator, logger log.Logger) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			r.Start(ctx)
			go func() {
				if err := service.Run(); err != nil {
					logger.Errorf("broker: service run exited with error: %s", err.Error())
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			r.Stop()
			if err := allocator.Close(); err != nil {
				logger.Warnf("broker: could not remove scratch directory: %s", err.Error())
			}
			return nil
		},
	})
}

func main() {
	configPath := flag.String("config", "", "path to an optional YAML configuration file")
	flag.Parse()

	builder := config.BuildNewServerConfig(*configPath)

	app := fx.New(
		fx.Provide(builder),
		fx.Provide(config.BuildNewAllocatorConfig(*configPath)),
		fx.Provide(config.BuildNewLoggerConfig(*configPath)),
		fx.Provide(config.BuildNewReaperConfig(*configPath)),
		fx.Provide(config.BuildNewDiscoveryConfig(*configPath)),
		fx.Provide(log.NewLogrusLogger),
		fx.Provide(alloc.New),
		fx.Provide(cache.NewCache),
		fx.Provide(newMemoryBroker),
		fx.Provide(discovery.NewRegistry),
		fx.Provide(newClient),
		fx.Provide(events.NewPublisher),
		fx.Provide(broker.New),
		fx.Provide(rpc.NewBrokerHandler),
		fx.Provide(rpc.NewService),
		fx.Provide(func(b *broker.Broker, cfg *config.ReaperConfig, logger log.Logger) *reaper.Reaper {
			return reaper.New(b, cfg, logger)
		}),
		fx.Invoke(registerLifecycle),
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ConsoleLogger{W: os.Stdout}
		}),
	)

	app.Run()
}
