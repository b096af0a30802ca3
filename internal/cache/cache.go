// Package cache is a small JSON layer over an in-process freecache.
package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const megabyte = 1024 * 1024

// JSONCache stores values as JSON under string keys.
type JSONCache struct {
	cache *freecache.Cache
}

func NewJSONCache(sizeMegabytes int) *JSONCache {
	if sizeMegabytes <= 0 {
		sizeMegabytes = 1
	}
	return &JSONCache{
		cache: freecache.NewCache(sizeMegabytes * megabyte),
	}
}

// Get decodes the cached value into dest. It reports false on a miss or a corrupt entry.
func (c *JSONCache) Get(key string, dest any) bool {
	raw, err := c.cache.Get([]byte(key))
	if err != nil {
		log.Tracef("cache miss for %s: %s", key, err)
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		log.Errorf("failed to unmarshal cached %s: %s", key, err)
		c.Del(key)
		return false
	}
	return true
}

// Set stores value under key. A positive ttl is rounded up to whole seconds; a non-positive
// ttl never expires.
func (c *JSONCache) Set(key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := c.cache.Set([]byte(key), raw, expireSeconds(ttl)); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// expireSeconds converts ttl for freecache, where 0 means no expiry, so a sub-second ttl
// must not truncate to 0.
func expireSeconds(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	return int((ttl + time.Second - 1) / time.Second)
}

func (c *JSONCache) Del(key string) {
	c.cache.Del([]byte(key))
}

func (c *JSONCache) EntryCount() int64 {
	return c.cache.EntryCount()
}
