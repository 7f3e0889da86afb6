package txpool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/RaheemJnr/Light-Client-Gateway/chain"
)

func txWithCapacity(c uint64) chain.Transaction {
	return chain.Transaction{Outputs: []chain.CellOutput{{Capacity: c}}, OutputsData: [][]byte{nil}}
}

func TestPoolAddAndGet(t *testing.T) {
	p := New(0)
	require.Equal(t, DefaultCapacity, p.capacity)

	tx := txWithCapacity(1)
	hash := p.Add(tx)
	require.Equal(t, 1, p.Len())

	entry, ok := p.Get(hash)
	require.True(t, ok)
	require.Equal(t, tx, entry.Tx)
	require.True(t, entry.FirstSent.IsZero())
}

func TestPoolFIFOEviction(t *testing.T) {
	p := New(2)
	h1 := p.Add(txWithCapacity(1))
	h2 := p.Add(txWithCapacity(2))
	h3 := p.Add(txWithCapacity(3))

	require.Equal(t, 2, p.Len())
	_, ok := p.Get(h1)
	require.False(t, ok, "oldest entry should have been evicted")
	_, ok = p.Get(h2)
	require.True(t, ok)
	_, ok = p.Get(h3)
	require.True(t, ok)
}

func TestPoolRemove(t *testing.T) {
	p := New(4)
	hash := p.Add(txWithCapacity(1))
	p.Remove(hash)
	require.Equal(t, 0, p.Len())
	_, ok := p.Get(hash)
	require.False(t, ok)
}

func TestPoolMarkToldPeer(t *testing.T) {
	p := New(4)
	hash := p.Add(txWithCapacity(1))
	p.MarkToldPeer(hash, "peer-1")
	entry, ok := p.Get(hash)
	require.True(t, ok)
	_, told := entry.PeersTold["peer-1"]
	require.True(t, told)
}

func TestPoolIsNotEmptyAndUpdatedAt(t *testing.T) {
	p := New(4)
	require.False(t, p.IsNotEmptyAndUpdatedAt(time.Minute))

	p.Add(txWithCapacity(1))
	require.True(t, p.IsNotEmptyAndUpdatedAt(time.Minute))
	require.False(t, p.IsNotEmptyAndUpdatedAt(0))
}

func TestPoolReAddMovesToBackWithoutDuplicating(t *testing.T) {
	p := New(4)
	tx := txWithCapacity(1)
	h1 := p.Add(tx)
	h2 := p.Add(tx)
	require.Equal(t, h1, h2)
	require.Equal(t, 1, p.Len())

	// Re-adding tx moves it behind newer entries, so the next eviction
	// removes the oldest of those instead of tx.
	other := p.Add(txWithCapacity(2))
	p.Add(txWithCapacity(3))
	p.Add(txWithCapacity(4))
	p.Add(tx)
	p.Add(txWithCapacity(5))
	require.Equal(t, 4, p.Len())
	_, ok := p.Get(h1)
	require.True(t, ok)
	_, ok = p.Get(other)
	require.False(t, ok)
}
