// Package cache holds the bounded, in-process caches that sit in front of
// the feed manager: one mapping agent id to that agent's most recently
// reported OS descriptor (OsDataCache) and one mapping agent id to that
// agent's known-installed hotfix set (RemediationDataCache). Both are sized
// from configuration, defaulting to 1000 entries (spec §2.2, §5), and evict
// least-recently-used entries once full rather than growing unbounded.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hostvuln/scanorch"
)

// DefaultSize is used when configuration does not specify a cache size.
const DefaultSize = 1000

// OsDataCache is a bounded LRU cache of the most recent scanorch.OS
// reported by each agent, keyed by agent id (spec §2.2: "bounded LRU
// mappings from agent id to the most recent OS descriptor"). Every
// OS-insert event write-throughs its descriptor here; every non-OS stage
// that needs host context (package scans, hotfix flows, detail builders)
// reads it back, since those wire forms do not themselves carry OS fields.
type OsDataCache struct {
	lru *lru.Cache[string, scanorch.OS]
}

// NewOsDataCache returns an OsDataCache holding at most size entries. size
// <= 0 is replaced with DefaultSize.
func NewOsDataCache(size int) (*OsDataCache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[string, scanorch.OS](size)
	if err != nil {
		return nil, err
	}
	return &OsDataCache{lru: c}, nil
}

// Get returns the cached OS descriptor for agentID, if present.
func (c *OsDataCache) Get(agentID string) (scanorch.OS, bool) {
	return c.lru.Get(agentID)
}

// Add inserts or replaces the cached OS descriptor for agentID, evicting
// the least-recently-used entry if the cache is full.
func (c *OsDataCache) Add(agentID string, os scanorch.OS) {
	c.lru.Add(agentID, os)
}

// Len reports the number of entries currently cached.
func (c *OsDataCache) Len() int { return c.lru.Len() }

// RemediationData holds one agent's known-installed hotfix state:
// Solution is a comma-joined list of hotfix IDs reported installed on that
// agent (internal/stage/hotfix.go's splitRemediations/appendRemediation).
// Reference is not set or read by any stage.
type RemediationData struct {
	Solution  string
	Reference string
}

// RemediationDataCache is a bounded LRU cache of RemediationData, keyed by
// agent id.
type RemediationDataCache struct {
	lru *lru.Cache[string, RemediationData]
}

// NewRemediationDataCache returns a RemediationDataCache holding at most
// size entries. size <= 0 is replaced with DefaultSize.
func NewRemediationDataCache(size int) (*RemediationDataCache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[string, RemediationData](size)
	if err != nil {
		return nil, err
	}
	return &RemediationDataCache{lru: c}, nil
}

// Get returns the cached RemediationData for agentID, if present.
func (c *RemediationDataCache) Get(agentID string) (RemediationData, bool) {
	return c.lru.Get(agentID)
}

// Add inserts or replaces the cached RemediationData for agentID, evicting
// the least-recently-used entry if the cache is full.
func (c *RemediationDataCache) Add(agentID string, v RemediationData) {
	c.lru.Add(agentID, v)
}

// Len reports the number of entries currently cached.
func (c *RemediationDataCache) Len() int { return c.lru.Len() }
