// Package cache provides the process-local read-through cache for API key
// validation.
//
// Verifying an Argon2id digest is deliberately expensive, so the result of
// a successful validation is cached against the raw presented key. Entries
// are snapshots, never authoritative: every mutation path (generate, revoke,
// rotate) must call EvictAccount so a revoked key stops being accepted.
// Eviction happens outside the database transaction, so a brief staleness
// window exists between commit and eviction; callers relying on revocation
// taking effect immediately must not read through this cache.
package cache

import (
	"sync"
	"time"

	"github.com/google/uuid"

	saDomain "github.com/allisson/authgate/internal/serviceaccount/domain"
)

// entry pairs a validated account snapshot with its expiry instant.
type entry struct {
	account   saDomain.ServiceAccount
	expiresAt time.Time
}

// APIKeyCache maps raw API keys to their last validated service account
// snapshot. Safe for concurrent use; reads take a shared lock.
type APIKeyCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
}

// NewAPIKeyCache creates a cache whose entries expire after ttl.
func NewAPIKeyCache(ttl time.Duration) *APIKeyCache {
	return &APIKeyCache{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// Get returns the cached snapshot for the raw key, or false when the key is
// unknown or the entry has expired. Expired entries are removed lazily.
func (c *APIKeyCache) Get(plainKey string) (*saDomain.ServiceAccount, bool) {
	c.mu.RLock()
	e, ok := c.entries[plainKey]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if !time.Now().Before(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; another writer may have refreshed it.
		if current, still := c.entries[plainKey]; still && !time.Now().Before(current.expiresAt) {
			delete(c.entries, plainKey)
		}
		c.mu.Unlock()
		return nil, false
	}

	account := e.account
	return &account, true
}

// Put records a validated account snapshot for the raw key.
func (c *APIKeyCache) Put(plainKey string, account *saDomain.ServiceAccount) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[plainKey] = entry{
		account:   *account,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Evict removes the entry for the raw key, if present.
func (c *APIKeyCache) Evict(plainKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, plainKey)
}

// EvictAccount removes every entry pointing at the given account. Mutation
// paths only know the account ID, not the plaintext key, so eviction scans
// the (small, process-local) entry set.
func (c *APIKeyCache) EvictAccount(accountID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if e.account.ID == accountID {
			delete(c.entries, key)
		}
	}
}

// Len returns the number of entries, including not-yet-collected expired ones.
func (c *APIKeyCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
