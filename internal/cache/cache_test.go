package cache

import (
	"testing"
	"time"

	"github.com/coocood/freecache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Message string   `json:"message"`
	Changes []string `json:"changes"`
}

func TestJSONCache(t *testing.T) {
	c := NewJSONCache(1)

	var got entry
	assert.False(t, c.Get("coach::1", &got))

	want := entry{Message: "hello", Changes: []string{"a", "b"}}
	require.NoError(t, c.Set("coach::1", want, time.Minute))
	assert.Equal(t, int64(1), c.EntryCount())

	require.True(t, c.Get("coach::1", &got))
	assert.Equal(t, want, got)

	c.Del("coach::1")
	assert.False(t, c.Get("coach::1", &got))
}

func TestJSONCache_CorruptEntryIsEvicted(t *testing.T) {
	c := NewJSONCache(1)
	require.NoError(t, c.Set("k", "just a string", time.Minute))

	var got entry
	assert.False(t, c.Get("k", &got))
	assert.Equal(t, int64(0), c.EntryCount())
}

func TestJSONCache_UnmarshalableValue(t *testing.T) {
	c := NewJSONCache(0)
	assert.Error(t, c.Set("k", make(chan int), time.Minute))
}

type manualTimer struct {
	now uint32
}

func (t *manualTimer) Now() uint32 {
	return t.now
}

func TestExpireSeconds(t *testing.T) {
	testCases := []struct {
		ttl      time.Duration
		expected int
	}{
		{ttl: 0, expected: 0},
		{ttl: -time.Second, expected: 0},
		{ttl: time.Nanosecond, expected: 1},
		{ttl: 500 * time.Millisecond, expected: 1},
		{ttl: time.Second, expected: 1},
		{ttl: 1500 * time.Millisecond, expected: 2},
		{ttl: 10 * time.Minute, expected: 600},
	}
	for _, tc := range testCases {
		t.Run(tc.ttl.String(), func(t *testing.T) {
			assert.Equal(t, tc.expected, expireSeconds(tc.ttl))
		})
	}
}

func TestJSONCache_SubSecondTTLExpires(t *testing.T) {
	timer := &manualTimer{now: 1000}
	c := &JSONCache{cache: freecache.NewCacheCustomTimer(megabyte, timer)}

	require.NoError(t, c.Set("coach::1", entry{Message: "stale soon"}, 500*time.Millisecond))

	var got entry
	assert.True(t, c.Get("coach::1", &got))

	timer.now += 2
	assert.False(t, c.Get("coach::1", &got))
}
