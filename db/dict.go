package db

import (
	"hash/fnv"
)

const (
	loadFactor = 0.7
)

type Entry[V any] struct {
	Key   string
	Value V
	Next  *Entry[V]
}

// HashTable is a chained hash table keyed by string. It doubles its bucket
// count once the load factor is exceeded. It is not safe for concurrent use;
// callers hold the owning shard's lock.
type HashTable[V any] struct {
	Table []*Entry[V]
	Size  int
	Count int
}

func NewHashTable[V any](initSize int) *HashTable[V] {
	if initSize < 1 {
		initSize = 1
	}
	return &HashTable[V]{
		Table: make([]*Entry[V], initSize),
		Size:  initSize,
	}
}

func (h *HashTable[V]) Hash(key string) int {
	hasher := fnv.New32a()
	hasher.Write([]byte(key))
	return int(hasher.Sum32() % uint32(h.Size))
}

// Set inserts or replaces the value for key. It returns true when the key
// was not present before.
func (h *HashTable[V]) Set(key string, value V) bool {
	// Check if we need to resize the hash table
	if float64(h.Count)/float64(h.Size) > loadFactor {
		h.resize()
	}

	index := h.Hash(key)
	for curr := h.Table[index]; curr != nil; curr = curr.Next {
		if curr.Key == key {
			curr.Value = value
			return false
		}
	}
	h.Table[index] = &Entry[V]{Key: key, Value: value, Next: h.Table[index]}
	h.Count++
	return true
}

func (h *HashTable[V]) resize() {
	newSize := h.Size * 2
	newTable := make([]*Entry[V], newSize)
	oldTable := h.Table
	h.Table = newTable
	h.Size = newSize

	for _, entry := range oldTable {
		for entry != nil {
			next := entry.Next
			index := h.Hash(entry.Key)
			entry.Next = h.Table[index]
			h.Table[index] = entry
			entry = next
		}
	}
}

// Delete removes key and reports whether it was present.
func (h *HashTable[V]) Delete(key string) bool {
	index := h.Hash(key)
	var prev *Entry[V]
	for curr := h.Table[index]; curr != nil; curr = curr.Next {
		if curr.Key == key {
			if prev == nil {
				h.Table[index] = curr.Next
			} else {
				prev.Next = curr.Next
			}
			h.Count--
			return true
		}
		prev = curr
	}
	return false
}

func (h *HashTable[V]) Get(key string) (V, bool) {
	index := h.Hash(key)
	for curr := h.Table[index]; curr != nil; curr = curr.Next {
		if curr.Key == key {
			return curr.Value, true
		}
	}
	var zero V
	return zero, false
}

// Len returns the number of elements in the hash table
func (h *HashTable[V]) Len() int {
	return h.Count
}

// Empty returns true if the hash table is empty
func (h *HashTable[V]) Empty() bool {
	return h.Count == 0
}

// Range calls fn for every entry until fn returns false. The table must not
// be modified from fn.
func (h *HashTable[V]) Range(fn func(key string, value V) bool) {
	for _, curr := range h.Table {
		for ; curr != nil; curr = curr.Next {
			if !fn(curr.Key, curr.Value) {
				return
			}
		}
	}
}

// Keys returns every key in bucket order.
func (h *HashTable[V]) Keys() []string {
	keys := make([]string, 0, h.Count)
	h.Range(func(key string, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}
