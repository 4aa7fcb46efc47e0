package envelope

import (
	"sync"
)

// BinaryTable holds raw document bytes keyed by document id. It is kept apart
// from the store state so that snapshots never copy large buffers.
type BinaryTable interface {
	Put(id string, data []byte)
	Get(id string) ([]byte, bool)
	Remove(id string)
	Clear()
	Len() int
	Size() int64
}

// MemoryBinaryTable is a thread-safe in-memory BinaryTable
type MemoryBinaryTable struct {
	mutex sync.RWMutex
	items map[string][]byte
	bytes int64
}

// NewMemoryBinaryTable creates an empty table
func NewMemoryBinaryTable() *MemoryBinaryTable {
	return &MemoryBinaryTable{
		items: make(map[string][]byte),
	}
}

// Put stores data under id, replacing any previous entry
func (t *MemoryBinaryTable) Put(id string, data []byte) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if old, exists := t.items[id]; exists {
		t.bytes -= int64(len(old))
	}
	t.items[id] = data
	t.bytes += int64(len(data))
}

// Get returns the bytes stored under id
func (t *MemoryBinaryTable) Get(id string) ([]byte, bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	data, ok := t.items[id]
	return data, ok
}

// Remove drops the entry for id
func (t *MemoryBinaryTable) Remove(id string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if old, exists := t.items[id]; exists {
		t.bytes -= int64(len(old))
		delete(t.items, id)
	}
}

// Clear drops every entry
func (t *MemoryBinaryTable) Clear() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.items = make(map[string][]byte)
	t.bytes = 0
}

// Len returns the number of stored documents
func (t *MemoryBinaryTable) Len() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return len(t.items)
}

// Size returns the total number of stored bytes
func (t *MemoryBinaryTable) Size() int64 {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return t.bytes
}
