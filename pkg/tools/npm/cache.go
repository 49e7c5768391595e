// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package npm

import (
	"path/filepath"
	"sync"
)

// DependencyCache remembers the result of dependency probes
// (`npm list <pkg>` / `yarn why <pkg>`) per (directory, package) pair.
// Probing spawns an external process, so detection would otherwise pay
// that cost repeatedly for the same directory.
//
// The cache is owned by the top level command context and passed down,
// with lifecycle = one process invocation. It is safe for concurrent use.
type DependencyCache struct {
	mu      sync.Mutex
	entries map[string]bool
}

func NewDependencyCache() *DependencyCache {
	return &DependencyCache{
		entries: map[string]bool{},
	}
}

func (c *DependencyCache) key(projectDir string, pkg string) string {
	return filepath.Clean(projectDir) + "\x00" + pkg
}

func (c *DependencyCache) Get(projectDir string, pkg string) (has bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	has, ok = c.entries[c.key(projectDir, pkg)]
	return has, ok
}

func (c *DependencyCache) Put(projectDir string, pkg string, has bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[c.key(projectDir, pkg)] = has
}
