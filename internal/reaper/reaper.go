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

// Package reaper implements the broker's optional Liveness Reaper (spec
// §4.6): a ticker that evicts nodes whose heartbeat has gone stale. It is a
// pure addition on top of internal/broker's locking discipline, never
// required for the coordination invariants to hold.
package reaper

import (
	"context"
	"sync"
	"time"

	"github.com/ONLYOFFICE/robotbroker/internal/broker"
	"github.com/ONLYOFFICE/robotbroker/internal/config"
	"github.com/ONLYOFFICE/robotbroker/internal/log"
	"github.com/ONLYOFFICE/robotbroker/internal/nodeclient"
	"golang.org/x/sync/errgroup"
)

// BrokerView is the subset of internal/broker.Broker the Reaper depends on.
// A narrow interface keeps this package testable without the full broker.
type BrokerView interface {
	StaleCandidates(cutoff time.Time) []broker.StaleCandidate
	Heartbeat(ctx context.Context, name string) error
	ReapStale(ctx context.Context, cutoff time.Time) []string
}

// Pinger probes a node's per-node socket for liveness. nodeclient.Ping
// satisfies this; tests supply a fake.
type Pinger func(ctx context.Context, address string) error

// Reaper runs ReapStale on a fixed period until stopped.
type Reaper struct {
	broker BrokerView
	ping   Pinger
	cfg    *config.ReaperConfig
	logger log.Logger
	ticker *time.Ticker
	done   chan struct{}
}

// New constructs a Reaper. It does not start the timer; call Start.
func New(b BrokerView, cfg *config.ReaperConfig, logger log.Logger) *Reaper {
	return &Reaper{broker: b, ping: nodeclient.Ping, cfg: cfg, logger: logger}
}

// SetPinger overrides the liveness probe function, for tests that don't want
// to dial a real Unix Domain Socket.
func SetPinger(r *Reaper, p Pinger) {
	r.ping = p
}

// Start begins the periodic eviction loop in a background goroutine. It is a
// no-op if the Reaper is disabled in configuration (spec §4.6: "OPTIONAL in
// the minimum implementation").
func (r *Reaper) Start(ctx context.Context) {
	if !r.cfg.Reaper.Enabled {
		r.logger.Infof("reaper: disabled, skipping start")
		return
	}

	r.ticker = time.NewTicker(r.cfg.Reaper.Period)
	r.done = make(chan struct{})

	go r.loop(ctx)
}

// Stop halts the eviction loop. Safe to call even if Start was a no-op.
func (r *Reaper) Stop() {
	if r.ticker == nil {
		return
	}
	r.ticker.Stop()
	close(r.done)
}

func (r *Reaper) loop(ctx context.Context) {
	for {
		select {
		case <-r.done:
			return
		case <-ctx.Done():
			return
		case <-r.ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Reaper) tick(ctx context.Context) {
	cutoff := time.Now().Add(-r.cfg.Reaper.Threshold)

	if r.cfg.Reaper.ActiveProbe {
		r.probeBeforeEviction(ctx, cutoff)
	}

	evicted := r.broker.ReapStale(ctx, cutoff)
	for _, name := range evicted {
		r.logger.Infof("reaper: evicted stale node %q", name)
	}
}

// probeBeforeEviction gives every heartbeat-stale node one last chance to
// prove liveness by dialing its own per-node socket (the SUPPLEMENTED
// "active probe" mode described in SPEC_FULL.md, grounded on the original
// Rust NodeHandle's direct socket connection). Candidates are probed
// concurrently via errgroup, the same fan-out-and-wait shape pkg/bootstrap.go
// uses to run services side by side; a node that answers has its heartbeat
// refreshed so the passive check in ReapStale will spare it, and a node that
// doesn't answer is left alone and evicted as usual.
func (r *Reaper) probeBeforeEviction(ctx context.Context, cutoff time.Time) {
	candidates := r.broker.StaleCandidates(cutoff)

	var mu sync.Mutex
	var revived []string

	group, gctx := errgroup.WithContext(ctx)
	for _, candidate := range candidates {
		candidate := candidate
		group.Go(func() error {
			if err := r.ping(gctx, candidate.Address); err != nil {
				r.logger.Debugf("reaper: active probe of %q failed: %s", candidate.Name, err.Error())
				return nil
			}

			mu.Lock()
			revived = append(revived, candidate.Name)
			mu.Unlock()
			return nil
		})
	}
	// Probe errors never abort the sweep; a dead node is simply evicted.
	_ = group.Wait()

	for _, name := range revived {
		r.logger.Infof("reaper: active probe revived %q", name)
		if err := r.broker.Heartbeat(ctx, name); err != nil {
			r.logger.Warnf("reaper: could not refresh heartbeat for %q after probe: %s", name, err.Error())
		}
	}
}
