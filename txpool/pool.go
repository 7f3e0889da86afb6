// Package txpool implements the bounded, insertion-ordered pending
// transaction pool described in spec.md §9's design notes: not
// persisted, single-writer, FIFO eviction beyond its capacity.
package txpool

import (
	"container/list"
	"sync"
	"time"

	"github.com/RaheemJnr/Light-Client-Gateway/chain"
	"github.com/RaheemJnr/Light-Client-Gateway/common"
)

// DefaultCapacity is the default maximum number of tracked pending
// transactions before the oldest is evicted.
const DefaultCapacity = 64

// Entry is one pending transaction's bookkeeping.
type Entry struct {
	Tx         chain.Transaction
	Cycles     uint64
	PeersTold  map[string]struct{}
	FirstSent  time.Time // zero value means "queued, not yet sent" (spec.md §9)
	insertedAt time.Time
}

// Pool is a bounded insertion-ordered map of tx_hash -> Entry, guarded by
// a single reader-writer lock with single-writer discipline (spec.md
// §5).
type Pool struct {
	mu       sync.RWMutex
	capacity int
	order    *list.List // of common.Byte32, oldest first
	elems    map[common.Byte32]*list.Element
	entries  map[common.Byte32]*Entry
	updated  time.Time
}

// New creates a Pool with the given capacity (DefaultCapacity if <= 0).
func New(capacity int) *Pool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Pool{
		capacity: capacity,
		order:    list.New(),
		elems:    make(map[common.Byte32]*list.Element),
		entries:  make(map[common.Byte32]*Entry),
	}
}

// Add inserts tx, evicting the oldest entry if the pool is at capacity.
// Re-adding an already-pending hash refreshes its position but does not
// duplicate bookkeeping.
func (p *Pool) Add(tx chain.Transaction) common.Byte32 {
	hash := tx.Hash()
	p.mu.Lock()
	defer p.mu.Unlock()

	if el, ok := p.elems[hash]; ok {
		p.order.MoveToBack(el)
		p.updated = time.Now()
		return hash
	}
	if p.order.Len() >= p.capacity {
		oldest := p.order.Front()
		if oldest != nil {
			oldHash := oldest.Value.(common.Byte32)
			p.order.Remove(oldest)
			delete(p.elems, oldHash)
			delete(p.entries, oldHash)
		}
	}
	el := p.order.PushBack(hash)
	p.elems[hash] = el
	p.entries[hash] = &Entry{Tx: tx, PeersTold: make(map[string]struct{}), insertedAt: time.Now()}
	p.updated = time.Now()
	return hash
}

// Get returns the entry for hash, if still pending.
func (p *Pool) Get(hash common.Byte32) (Entry, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.entries[hash]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Remove drops hash from the pool (e.g. once its transaction has been
// confirmed on chain).
func (p *Pool) Remove(hash common.Byte32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if el, ok := p.elems[hash]; ok {
		p.order.Remove(el)
		delete(p.elems, hash)
		delete(p.entries, hash)
		p.updated = time.Now()
	}
}

// MarkToldPeer records that peerID has been told about hash, so the
// relay loop does not resend it.
func (p *Pool) MarkToldPeer(hash common.Byte32, peerID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := p.entries[hash]; ok {
		e.PeersTold[peerID] = struct{}{}
	}
}

// Len reports the number of pending transactions.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.order.Len()
}

// IsNotEmptyAndUpdatedAt reports whether the pool is non-empty and has
// had an insertion/update within the last d, the condition the relay
// heartbeat gates on (spec.md §9).
func (p *Pool) IsNotEmptyAndUpdatedAt(d time.Duration) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.order.Len() == 0 {
		return false
	}
	return time.Since(p.updated) <= d
}
