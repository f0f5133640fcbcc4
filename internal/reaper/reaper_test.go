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

package reaper_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ONLYOFFICE/robotbroker/internal/broker"
	"github.com/ONLYOFFICE/robotbroker/internal/config"
	"github.com/ONLYOFFICE/robotbroker/internal/log"
	"github.com/ONLYOFFICE/robotbroker/internal/reaper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBroker struct {
	candidates    []broker.StaleCandidate
	heartbeated   []string
	reapStaleArgs []time.Time
	reapResult    []string
}

func (f *fakeBroker) StaleCandidates(cutoff time.Time) []broker.StaleCandidate {
	return f.candidates
}

func (f *fakeBroker) Heartbeat(ctx context.Context, name string) error {
	f.heartbeated = append(f.heartbeated, name)
	return nil
}

func (f *fakeBroker) ReapStale(ctx context.Context, cutoff time.Time) []string {
	f.reapStaleArgs = append(f.reapStaleArgs, cutoff)
	return f.reapResult
}

func newTestConfig(enabled, activeProbe bool) *config.ReaperConfig {
	cfg := &config.ReaperConfig{}
	cfg.Reaper.Enabled = enabled
	cfg.Reaper.ActiveProbe = activeProbe
	cfg.Reaper.Period = 10 * time.Millisecond
	cfg.Reaper.Threshold = 5 * time.Second
	return cfg
}

func TestDisabledReaperNeverTicks(t *testing.T) {
	fb := &fakeBroker{}
	r := reaper.New(fb, newTestConfig(false, false), log.NewNopLogger())

	r.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	r.Stop()

	assert.Empty(t, fb.reapStaleArgs)
}

func TestEnabledReaperTicksAndEvicts(t *testing.T) {
	fb := &fakeBroker{reapResult: []string{"stale-node"}}
	r := reaper.New(fb, newTestConfig(true, false), log.NewNopLogger())

	r.Start(context.Background())
	time.Sleep(35 * time.Millisecond)
	r.Stop()

	assert.NotEmpty(t, fb.reapStaleArgs)
}

func TestActiveProbeRevivesRespondingNode(t *testing.T) {
	fb := &fakeBroker{candidates: []broker.StaleCandidate{{Name: "alive", Address: "/tmp/alive.sock"}}}
	r := reaper.New(fb, newTestConfig(true, true), log.NewNopLogger())

	pings := map[string]error{"/tmp/alive.sock": nil}
	reaper.SetPinger(r, func(ctx context.Context, address string) error {
		return pings[address]
	})

	r.Start(context.Background())
	time.Sleep(15 * time.Millisecond)
	r.Stop()

	require.Contains(t, fb.heartbeated, "alive")
}

func TestActiveProbeLeavesUnresponsiveNodeForEviction(t *testing.T) {
	fb := &fakeBroker{candidates: []broker.StaleCandidate{{Name: "dead", Address: "/tmp/dead.sock"}}}
	r := reaper.New(fb, newTestConfig(true, true), log.NewNopLogger())

	reaper.SetPinger(r, func(ctx context.Context, address string) error {
		return errors.New("connection refused")
	})

	r.Start(context.Background())
	time.Sleep(15 * time.Millisecond)
	r.Stop()

	assert.Empty(t, fb.heartbeated)
}
