package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	c, err := Open("")
	require.NoError(t, err)
	defer c.Close()

	key := Key("e", "x5/x5/x5/x5/x5 1 1", 3, 0)
	_, ok, err := c.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)

	want := Entry{PV: []string{"a1", "e5"}, Score: -12, Depth: 3, Nodes: 4711}
	require.NoError(t, c.Put(key, want))
	got, ok, err := c.Get(key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	_, ok, err = c.Get(Key("e", "x5/x5/x5/x5/x5 1 1", 4, 0))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPersist(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	require.NoError(t, err)
	key := Key("e", "x3/x3/x3 1 1", 2, 100)
	require.NoError(t, c.Put(key, Entry{PV: []string{"a1"}, Depth: 2}))
	require.NoError(t, c.Close())

	c, err = Open(dir)
	require.NoError(t, err)
	defer c.Close()
	got, ok, err := c.Get(key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"a1"}, got.PV)
}
