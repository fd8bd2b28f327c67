package db

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fzft/simple-redis/resp"
)

const (
	INITIAL_DB_SIZE = 16
	DefaultShards   = 32
)

// Store is the keyspace shared by every connection. Plain values and hashes
// live in separate keyspaces. Keys are spread over independently locked
// shards so operations on disjoint keys rarely contend; every operation on a
// single key is atomic.
type Store struct {
	shards []*shard
}

type shard struct {
	mu     sync.RWMutex
	dict   *HashTable[resp.Frame]             // key -> value
	hashes *HashTable[*HashTable[resp.Frame]] // key -> field -> value
}

// New returns an empty store with n shards. n < 1 selects DefaultShards.
func New(n int) *Store {
	if n < 1 {
		n = DefaultShards
	}
	s := &Store{shards: make([]*shard, n)}
	for i := range s.shards {
		s.shards[i] = &shard{
			dict:   NewHashTable[resp.Frame](INITIAL_DB_SIZE),
			hashes: NewHashTable[*HashTable[resp.Frame]](INITIAL_DB_SIZE),
		}
	}
	return s
}

func (s *Store) shardFor(key string) *shard {
	return s.shards[xxhash.Sum64String(key)%uint64(len(s.shards))]
}

// Shards returns the number of shards.
func (s *Store) Shards() int {
	return len(s.shards)
}

func (s *Store) Get(key string) (resp.Frame, bool) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return sh.dict.Get(key)
}

func (s *Store) Set(key string, value resp.Frame) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.dict.Set(key, value)
}

// Del removes key from both keyspaces and reports whether anything was
// removed.
func (s *Store) Del(key string) bool {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	removed := sh.dict.Delete(key)
	if sh.hashes.Delete(key) {
		removed = true
	}
	return removed
}

// Len returns the number of plain keys.
func (s *Store) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += sh.dict.Len()
		sh.mu.RUnlock()
	}
	return n
}

func (s *Store) HGet(key, field string) (resp.Frame, bool) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	h, ok := sh.hashes.Get(key)
	if !ok {
		return nil, false
	}
	return h.Get(field)
}

// HSet stores value under field of the hash at key, creating the hash when
// needed. It returns true when field is new.
func (s *Store) HSet(key, field string, value resp.Frame) bool {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	h, ok := sh.hashes.Get(key)
	if !ok {
		h = NewHashTable[resp.Frame](INITIAL_DB_SIZE)
		sh.hashes.Set(key, h)
	}
	return h.Set(field, value)
}

// HGetAll returns a copy of the hash at key, or nil when there is none.
func (s *Store) HGetAll(key string) map[string]resp.Frame {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	h, ok := sh.hashes.Get(key)
	if !ok {
		return nil
	}
	out := make(map[string]resp.Frame, h.Len())
	h.Range(func(field string, value resp.Frame) bool {
		out[field] = value
		return true
	})
	return out
}
