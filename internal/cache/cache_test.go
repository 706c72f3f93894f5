package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetRoundTrip(t *testing.T) {
	c, err := New(t.TempDir(), 1, true)
	require.NoError(t, err)

	key := HashBytes([]byte("x = 1\n"))
	require.NoError(t, c.Set(key, []byte(`{"ok":true}`)))

	data, ok := c.Get(key)
	require.True(t, ok)
	assert.JSONEq(t, `{"ok":true}`, string(data))
}

func TestGetMissing(t *testing.T) {
	c, err := New(t.TempDir(), 1, true)
	require.NoError(t, err)

	_, ok := c.Get("deadbeef")
	assert.False(t, ok)
}

func TestDisabledCacheIsNoOp(t *testing.T) {
	c, err := New("", 1, false)
	require.NoError(t, err)

	require.NoError(t, c.Set("key", []byte("data")))
	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestKeyIncludesFingerprint(t *testing.T) {
	source := []byte("x = 1\n")
	assert.NotEqual(t, Key(source, "timeout=5s"), Key(source, "timeout=10s"))
	assert.Equal(t, Key(source, "timeout=5s"), Key(source, "timeout=5s"))
}

func TestInvalidate(t *testing.T) {
	c, err := New(t.TempDir(), 1, true)
	require.NoError(t, err)

	require.NoError(t, c.Set("key", []byte("data")))
	require.NoError(t, c.Invalidate("key"))

	_, ok := c.Get("key")
	assert.False(t, ok)

	// Invalidating a missing key is not an error.
	assert.NoError(t, c.Invalidate("key"))
}
