package envelope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryBinaryTable(t *testing.T) {
	table := NewMemoryBinaryTable()
	table.Put("a", []byte("1234"))
	table.Put("b", []byte("56"))
	table.Put("a", []byte("1"))

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, int64(3), table.Size())

	data, ok := table.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), data)

	table.Remove("a")
	_, ok = table.Get("a")
	assert.False(t, ok)
	assert.Equal(t, int64(2), table.Size())

	table.Remove("missing")
	table.Clear()
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, int64(0), table.Size())
}

func TestStore_BinariesFollowDocuments(t *testing.T) {
	s := NewStore()
	a := s.AddDocument("a.pdf", []byte("1234"), 1)
	s.AddDocument("b.pdf", []byte("56"), 1)
	assert.Equal(t, int64(6), s.Binaries().Size())

	s.RemoveDocument(a.ID)
	assert.Equal(t, 1, s.Binaries().Len())
	assert.Equal(t, int64(2), s.Binaries().Size())

	s.Reset()
	assert.Equal(t, int64(0), s.Binaries().Size())
}
