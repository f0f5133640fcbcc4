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

// Package alloc mints unique local-socket addresses under a scratch
// directory for the broker's Node Registry (spec §4.1).
package alloc

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/ONLYOFFICE/robotbroker/internal/config"
)

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// maxCollisionAttempts bounds the retry loop spec §4.1 requires when a minted
// path already exists in the registry. A collision across a 62-character,
// 20-symbol alphabet is astronomically unlikely; this is only a backstop.
const maxCollisionAttempts = 64

// Allocator mints fresh socket paths under a per-process scratch directory.
// It holds no state besides the directory and is safe for concurrent use:
// the only shared resource is crypto/rand's reader, which is already
// synchronized.
type Allocator struct {
	dir string
}

// New creates the scratch directory under parent (os.TempDir() if empty).
func New(cfg *config.AllocatorConfig) (*Allocator, error) {
	dir, err := os.MkdirTemp(cfg.Allocator.ScratchParent, "robotbroker-")
	if err != nil {
		return nil, fmt.Errorf("alloc: create scratch directory: %w", err)
	}

	return &Allocator{dir: dir}, nil
}

// Dir returns the scratch directory all minted addresses live under.
func (a *Allocator) Dir() string {
	return a.dir
}

// Close removes the scratch directory and everything under it. Safe to call
// on broker shutdown even if no addresses were ever minted.
func (a *Allocator) Close() error {
	return os.RemoveAll(a.dir)
}

// Exists reports whether a candidate path is already taken. Allocate calls
// this once per attempt to satisfy spec §4.1's collision-retry requirement.
type Exists func(path string) bool

// Allocate mints a path of the form "<dir>/<20-alphanum>.sock", retrying
// against exists on collision. It does not create or bind the socket.
func (a *Allocator) Allocate(tokenLength int, exists Exists) (string, error) {
	for attempt := 0; attempt < maxCollisionAttempts; attempt++ {
		token, err := randomToken(tokenLength)
		if err != nil {
			return "", fmt.Errorf("alloc: mint random token: %w", err)
		}

		path := filepath.Join(a.dir, token+".sock")
		if exists == nil || !exists(path) {
			return path, nil
		}
	}

	return "", fmt.Errorf("alloc: exhausted %d attempts minting a unique address", maxCollisionAttempts)
}

func randomToken(length int) (string, error) {
	alphabetSize := big.NewInt(int64(len(tokenAlphabet)))
	buf := make([]byte, length)

	for i := range buf {
		idx, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}

		buf[i] = tokenAlphabet[idx.Int64()]
	}

	return string(buf), nil
}
