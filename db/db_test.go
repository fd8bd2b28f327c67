package db

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fzft/simple-redis/resp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreGetSet(t *testing.T) {
	s := New(4)
	_, ok := s.Get("foo")
	assert.False(t, ok)

	s.Set("foo", resp.BlobString{Value: "hello"})
	v, ok := s.Get("foo")
	require.True(t, ok)
	assert.Equal(t, resp.BlobString{Value: "hello"}, v)

	s.Set("foo", resp.Integer{Value: 1})
	v, _ = s.Get("foo")
	assert.Equal(t, resp.Integer{Value: 1}, v)
	assert.Equal(t, 1, s.Len())
}

func TestStoreDefaultShards(t *testing.T) {
	assert.Equal(t, DefaultShards, New(0).Shards())
	assert.Equal(t, 3, New(3).Shards())
}

func TestStoreDel(t *testing.T) {
	s := New(2)
	s.Set("a", resp.Null{})
	s.HSet("h", "f", resp.Null{})

	assert.True(t, s.Del("a"))
	assert.False(t, s.Del("a"))
	assert.True(t, s.Del("h"))
	assert.Nil(t, s.HGetAll("h"))
	assert.Equal(t, 0, s.Len())
}

func TestStoreHashes(t *testing.T) {
	s := New(2)
	assert.True(t, s.HSet("user", "name", resp.BlobString{Value: "ada"}))
	assert.True(t, s.HSet("user", "age", resp.Integer{Value: 36}))
	assert.False(t, s.HSet("user", "age", resp.Integer{Value: 37}))

	v, ok := s.HGet("user", "age")
	require.True(t, ok)
	assert.Equal(t, resp.Integer{Value: 37}, v)

	_, ok = s.HGet("user", "missing")
	assert.False(t, ok)
	_, ok = s.HGet("nobody", "name")
	assert.False(t, ok)

	all := s.HGetAll("user")
	assert.Equal(t, map[string]resp.Frame{
		"name": resp.BlobString{Value: "ada"},
		"age":  resp.Integer{Value: 37},
	}, all)

	// The result is a copy.
	all["name"] = resp.Null{}
	v, _ = s.HGet("user", "name")
	assert.Equal(t, resp.BlobString{Value: "ada"}, v)

	// Hashes do not share the plain keyspace.
	_, ok = s.Get("user")
	assert.False(t, ok)
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := New(8)
	const workers, keys = 8, 200

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < keys; i++ {
				key := fmt.Sprintf("key%d", i)
				s.Set(key, resp.Integer{Value: int64(w)})
				s.Get(key)
				s.HSet("shared", fmt.Sprintf("w%d-%d", w, i), resp.Integer{Value: int64(i)})
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, keys, s.Len())
	assert.Len(t, s.HGetAll("shared"), workers*keys)
	for i := 0; i < keys; i++ {
		v, ok := s.Get(fmt.Sprintf("key%d", i))
		require.True(t, ok)
		assert.IsType(t, resp.Integer{}, v)
	}
}
